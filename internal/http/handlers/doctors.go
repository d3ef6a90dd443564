package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// DoctorsHandler serves /api/doctors.
type DoctorsHandler struct {
	store  *clinicdata.Store
	repo   clinicdata.Repository
	logger *logging.Logger
}

func NewDoctorsHandler(store *clinicdata.Store, repo clinicdata.Repository, logger *logging.Logger) *DoctorsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil || repo == nil {
		panic("handlers: doctors dependencies cannot be nil")
	}
	return &DoctorsHandler{store: store, repo: repo, logger: logger}
}

// List handles GET /api/doctors.
func (h *DoctorsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Doctors())
}

// Create handles POST /api/doctors. New doctors start with zero patients.
func (h *DoctorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc clinicdata.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(doc.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	doc.ID = 0
	doc.Patients = 0
	doc = h.store.AddDoctor(doc)
	if err := h.repo.Save(r.Context(), h.store.Snapshot()); err != nil {
		h.logger.Error("persist after doctor create failed", "error", err, "doctor_id", doc.ID)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "doctor": doc})
}

// Delete handles DELETE /api/doctors/{id}.
func (h *DoctorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "id must be numeric")
		return
	}
	if !h.store.DeleteDoctor(id) {
		respondError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if err := h.repo.Save(r.Context(), h.store.Snapshot()); err != nil {
		h.logger.Error("persist after doctor delete failed", "error", err, "doctor_id", id)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
