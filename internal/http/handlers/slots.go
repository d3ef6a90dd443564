package handlers

import (
	"net/http"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
)

// allSlots is the clinic's standard bookable day. Could become configurable
// per doctor later; the frontend treats it as opaque strings.
var allSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM", "05:00 PM",
}

// SlotsHandler serves /api/available-slots.
type SlotsHandler struct {
	store *clinicdata.Store
}

func NewSlotsHandler(store *clinicdata.Store) *SlotsHandler {
	if store == nil {
		panic("handlers: slots store cannot be nil")
	}
	return &SlotsHandler{store: store}
}

// List handles GET /api/available-slots?date=&doctor=. Without both params
// the full table is returned; otherwise slots taken by Confirmed bookings
// for that date and doctor are removed.
func (h *SlotsHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	doctor := r.URL.Query().Get("doctor")
	if date == "" || doctor == "" {
		respondJSON(w, http.StatusOK, allSlots)
		return
	}

	booked := make(map[string]struct{})
	for _, a := range h.store.Appointments() {
		if a.Date == date && a.Doctor == doctor && a.Status == clinicdata.StatusConfirmed {
			booked[a.Time] = struct{}{}
		}
	}

	available := make([]string, 0, len(allSlots))
	for _, slot := range allSlots {
		if _, taken := booked[slot]; !taken {
			available = append(available, slot)
		}
	}
	respondJSON(w, http.StatusOK, available)
}
