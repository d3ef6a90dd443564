package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smiledental/clinic-platform/internal/booking"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

type appointmentBooker interface {
	CreateAppointment(ctx context.Context, req booking.CreateAppointmentRequest) (clinicdata.Appointment, error)
}

// AppointmentsHandler serves /api/appointments.
type AppointmentsHandler struct {
	store    *clinicdata.Store
	repo     clinicdata.Repository
	bookings appointmentBooker
	logger   *logging.Logger
}

// NewAppointmentsHandler wires the appointment endpoints.
func NewAppointmentsHandler(store *clinicdata.Store, repo clinicdata.Repository, bookings appointmentBooker, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil || repo == nil || bookings == nil {
		panic("handlers: appointments dependencies cannot be nil")
	}
	return &AppointmentsHandler{store: store, repo: repo, bookings: bookings, logger: logger}
}

// List handles GET /api/appointments.
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Appointments())
}

// Create handles POST /api/appointments. Booking side effects (patient
// upsert, persist, automation webhook, reconciler kick) run in the booking
// service so the web form and the WhatsApp bot behave identically.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := h.bookings.CreateAppointment(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "appointment": appt})
}

// Delete handles DELETE /api/appointments/{id}.
func (h *AppointmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "id must be numeric")
		return
	}
	if !h.store.DeleteAppointment(id) {
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}
	if err := h.repo.Save(r.Context(), h.store.Snapshot()); err != nil {
		h.logger.Error("persist after appointment delete failed", "error", err, "appointment_id", id)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
