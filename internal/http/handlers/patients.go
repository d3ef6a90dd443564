package handlers

import (
	"net/http"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// PatientsHandler serves /api/patients.
type PatientsHandler struct {
	store  *clinicdata.Store
	repo   clinicdata.Repository
	logger *logging.Logger
}

func NewPatientsHandler(store *clinicdata.Store, repo clinicdata.Repository, logger *logging.Logger) *PatientsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil || repo == nil {
		panic("handlers: patients dependencies cannot be nil")
	}
	return &PatientsHandler{store: store, repo: repo, logger: logger}
}

// List handles GET /api/patients.
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Patients())
}

// Delete handles DELETE /api/patients/{id}.
func (h *PatientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "id must be numeric")
		return
	}
	if !h.store.DeletePatient(id) {
		respondError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err := h.repo.Save(r.Context(), h.store.Snapshot()); err != nil {
		h.logger.Error("persist after patient delete failed", "error", err, "patient_id", id)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
