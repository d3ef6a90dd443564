// Package reconcile drives every stored appointment toward its converged
// state: Confirmed, notified, and calendar-linked. Three ordered idempotent
// passes run on a fixed interval and immediately after each new booking;
// whatever they mutate is persisted in one whole-document write.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/smiledental/clinic-platform/internal/agentlog"
	"github.com/smiledental/clinic-platform/internal/calendar"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/internal/notify"
	"github.com/smiledental/clinic-platform/internal/observability/metrics"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// Agent names used in log entries and the health surface.
const (
	agentCoordinator  = "Coordinator"
	agentNotifier     = "Notifier"
	agentCalendar     = "CalendarAgent"
	agentOrchestrator = "Orchestrator"
)

// emergencyTypes map treatments to High priority during the confirm pass.
var emergencyTypes = map[string]struct{}{
	"Root Canal": {},
	"Emergency":  {},
	"Acute Pain": {},
}

// Reconciler owns the reconciliation loop.
type Reconciler struct {
	store     *clinicdata.Store
	repo      clinicdata.Repository
	messenger notify.Messenger
	sink      agentlog.Sink
	metrics   *metrics.ClinicMetrics
	logger    *logging.Logger
	interval  time.Duration
	kicks     chan struct{}
}

// New wires a reconciler. messenger and metrics may be nil; a nil messenger
// makes the notification pass run in simulation mode.
func New(store *clinicdata.Store, repo clinicdata.Repository, messenger notify.Messenger, sink agentlog.Sink, m *metrics.ClinicMetrics, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		panic("reconcile: store cannot be nil")
	}
	if repo == nil {
		panic("reconcile: repository cannot be nil")
	}
	if sink == nil {
		sink = agentlog.NewRingSink(logger)
	}
	return &Reconciler{
		store:     store,
		repo:      repo,
		messenger: messenger,
		sink:      sink,
		metrics:   m,
		logger:    logger,
		interval:  60 * time.Second,
		kicks:     make(chan struct{}, 1),
	}
}

// WithInterval overrides the cycle interval.
func (r *Reconciler) WithInterval(d time.Duration) *Reconciler {
	if d > 0 {
		r.interval = d
	}
	return r
}

// Kick schedules an immediate cycle without blocking the caller. Kicks
// coalesce: one pending kick is enough, the cycle sweeps everything.
func (r *Reconciler) Kick() {
	select {
	case r.kicks <- struct{}{}:
	default:
	}
}

// Run executes cycles until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.kicks:
			r.RunCycle(ctx)
		case <-ticker.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle executes the three passes once and persists when anything
// changed. A panic escaping a pass is recorded at critical severity and must
// never take the loop down.
func (r *Reconciler) RunCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.sink.Record(agentOrchestrator, fmt.Sprintf("Cycle failure: %v", rec), agentlog.LevelCritical)
		}
	}()

	r.metrics.ObserveCycle()

	confirmed := r.confirmPending()
	notified := r.sendNotifications(ctx)
	linked := r.syncCalendar()

	r.metrics.ObservePassMutations("confirm", confirmed)
	r.metrics.ObservePassMutations("notify", notified)
	r.metrics.ObservePassMutations("calendar", linked)

	if confirmed+notified+linked == 0 {
		return
	}
	if err := r.repo.Save(ctx, r.store.Snapshot()); err != nil {
		r.sink.Record(agentOrchestrator, fmt.Sprintf("Persist failed: %v", err), agentlog.LevelError)
		r.metrics.ObservePersistFailure()
		return
	}
	r.sink.Record(agentOrchestrator, "Appointment state synced across all agents.", agentlog.LevelInfo)
}

// confirmPending promotes Pending appointments to Confirmed, assigns
// priority, and posts a doctor-facing message per confirmation. Idempotent:
// it only acts on Pending records, which it itself clears.
func (r *Reconciler) confirmPending() int {
	r.sink.Record(agentCoordinator, "Scanning appointment queue...", agentlog.LevelInfo)

	var confirmed []clinicdata.Appointment
	r.store.UpdateAppointments(func(a *clinicdata.Appointment) bool {
		if a.Status != clinicdata.StatusPending {
			return false
		}
		a.Status = clinicdata.StatusConfirmed
		if _, emergency := emergencyTypes[a.Type]; emergency {
			a.Priority = clinicdata.PriorityHigh
		} else {
			a.Priority = clinicdata.PriorityNormal
		}
		confirmed = append(confirmed, *a)
		return true
	})

	for _, a := range confirmed {
		r.store.PrependMessage(clinicdata.Message{
			Text:   fmt.Sprintf("[Coordinator] Verified: %s scheduled for %s. Priority set to %s.", a.Patient, a.Type, a.Priority),
			Sender: "Coordinator Agent",
			Role:   "doctor",
		})
	}
	return len(confirmed)
}

// sendNotifications delivers the booking confirmation for Confirmed
// appointments that have not been notified. Sends happen outside the store
// lock; results are applied afterwards, re-checking the notified flag so a
// concurrent cycle cannot double-send.
func (r *Reconciler) sendNotifications(ctx context.Context) int {
	r.sink.Record(agentNotifier, "Checking for unsent notifications...", agentlog.LevelInfo)

	type outcome struct {
		id    int64
		state clinicdata.NotificationState
	}
	var outcomes []outcome

	for _, a := range r.store.Appointments() {
		if a.Status != clinicdata.StatusConfirmed || a.Notified.Truthy() {
			continue
		}
		if r.messenger == nil || !r.messenger.Enabled() || a.Phone == "" {
			outcomes = append(outcomes, outcome{a.ID, clinicdata.NotificationSimulated})
			r.sink.Record(agentNotifier, fmt.Sprintf("WhatsApp simulation sent to %s", a.Patient), agentlog.LevelInfo)
			continue
		}

		body := fmt.Sprintf("Thanks for booking your appointment!\n\nDetails:\nName: %s\nDate: %s\nTime: %s\nDoctor: %s",
			a.Patient, a.Date, a.Time, a.Doctor)
		if err := r.messenger.Send(ctx, a.Phone, body); err != nil {
			// Leave the flag unset so the next cycle retries.
			r.sink.Record(agentNotifier, fmt.Sprintf("Delivery error for %s: %v", a.Patient, err), agentlog.LevelError)
			continue
		}
		outcomes = append(outcomes, outcome{a.ID, clinicdata.NotificationSent})
		r.sink.Record(agentNotifier, fmt.Sprintf("WhatsApp confirmation sent to %s", a.Patient), agentlog.LevelInfo)
	}

	if len(outcomes) == 0 {
		return 0
	}
	states := make(map[int64]clinicdata.NotificationState, len(outcomes))
	for _, o := range outcomes {
		states[o.id] = o.state
	}
	mutated := 0
	r.store.UpdateAppointments(func(a *clinicdata.Appointment) bool {
		state, ok := states[a.ID]
		if !ok || a.Notified.Truthy() {
			return false
		}
		a.Notified = state
		mutated++
		return true
	})
	return mutated
}

// syncCalendar attaches a calendar deep link to Confirmed appointments that
// lack one. Once set the link is never recomputed; parse failures are logged
// and retried on later cycles.
func (r *Reconciler) syncCalendar() int {
	r.sink.Record(agentCalendar, "Validating calendar sync...", agentlog.LevelInfo)

	type failure struct {
		id  int64
		err error
	}
	var (
		linked   []string
		failures []failure
	)
	mutated := 0
	r.store.UpdateAppointments(func(a *clinicdata.Appointment) bool {
		if a.Status != clinicdata.StatusConfirmed || a.CalendarSync != "" {
			return false
		}
		link, err := calendar.EventLink(*a)
		if err != nil {
			failures = append(failures, failure{a.ID, err})
			return false
		}
		a.CalendarSync = link
		linked = append(linked, a.Patient)
		mutated++
		return true
	})

	for _, patient := range linked {
		r.sink.Record(agentCalendar, fmt.Sprintf("Deep link generated for %s", patient), agentlog.LevelInfo)
	}
	for _, f := range failures {
		r.sink.Record(agentCalendar, fmt.Sprintf("Error generating link for %d: %v", f.id, f.err), agentlog.LevelError)
	}
	return mutated
}

// AgentStatus describes one reconciliation agent on the health surface.
type AgentStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AgentStatuses reports the loop's agents for the health endpoint.
func (r *Reconciler) AgentStatuses() []AgentStatus {
	notifier := "Simulating"
	if r.messenger != nil && r.messenger.Enabled() {
		notifier = "Integrated"
	}
	return []AgentStatus{
		{ID: "coordinator", Name: "Coordinator Agent", Status: "Running"},
		{ID: "notifier", Name: "Notification Agent", Status: notifier},
		{ID: "calendar", Name: "Calendar Agent", Status: "Running"},
		{ID: "logger", Name: "Log Agent", Status: "Monitoring"},
	}
}
