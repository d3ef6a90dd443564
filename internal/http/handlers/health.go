package handlers

import (
	"net/http"
	"time"

	"github.com/smiledental/clinic-platform/internal/agentlog"
	"github.com/smiledental/clinic-platform/internal/reconcile"
)

// agentReporter exposes the reconciliation loop's agent roster.
type agentReporter interface {
	AgentStatuses() []reconcile.AgentStatus
}

// HealthHandler serves the liveness root and /api/system/health.
type HealthHandler struct {
	agents  agentReporter
	sink    agentlog.Sink
	started time.Time
}

func NewHealthHandler(agents agentReporter, sink agentlog.Sink) *HealthHandler {
	if agents == nil || sink == nil {
		panic("handlers: health dependencies cannot be nil")
	}
	return &HealthHandler{agents: agents, sink: sink, started: time.Now()}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Smile Dental Clinic API is running"))
}

type healthResponse struct {
	Status string                  `json:"status"`
	Uptime float64                 `json:"uptime"`
	Agents []reconcile.AgentStatus `json:"agents"`
	Logs   []agentlog.Entry        `json:"logs"`
}

// Health handles GET /api/system/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status: "Operational",
		Uptime: time.Since(h.started).Seconds(),
		Agents: h.agents.AgentStatuses(),
		Logs:   h.sink.Recent(5),
	})
}
