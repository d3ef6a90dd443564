package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// MessagesHandler serves /api/messages.
type MessagesHandler struct {
	store  *clinicdata.Store
	repo   clinicdata.Repository
	logger *logging.Logger
}

func NewMessagesHandler(store *clinicdata.Store, repo clinicdata.Repository, logger *logging.Logger) *MessagesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil || repo == nil {
		panic("handlers: messages dependencies cannot be nil")
	}
	return &MessagesHandler{store: store, repo: repo, logger: logger}
}

// List handles GET /api/messages.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Messages())
}

type createMessageRequest struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
	Role   string `json:"role"`
}

// Create handles POST /api/messages. The server stamps ID and timestamp and
// new messages always start unread.
func (h *MessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	msg := h.store.AddMessage(clinicdata.Message{
		Text:   req.Text,
		Sender: req.Sender,
		Role:   req.Role,
	})
	if err := h.repo.Save(r.Context(), h.store.Snapshot()); err != nil {
		h.logger.Error("persist after message create failed", "error", err, "message_id", msg.ID)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}
