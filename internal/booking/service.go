// Package booking creates appointments and their side effects. The HTTP form
// and the WhatsApp conversation tracker share this path so patient upsert,
// persistence, the automation webhook, and the reconciler kick behave the
// same regardless of the channel.
package booking

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/internal/observability/metrics"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

var tracer = otel.Tracer("clinic.internal.booking")

// CycleKicker requests an immediate reconciliation cycle without waiting for
// it to run.
type CycleKicker interface {
	Kick()
}

// AutomationTrigger fires the external booking webhook in the background.
type AutomationTrigger interface {
	NotifyBooking(appt clinicdata.Appointment)
}

// Service books appointments.
type Service struct {
	store         *clinicdata.Store
	repo          clinicdata.Repository
	automation    AutomationTrigger
	kicker        CycleKicker
	metrics       *metrics.ClinicMetrics
	logger        *logging.Logger
	defaultDoctor string
}

// NewService wires a booking service. automation, kicker and metrics may be
// nil.
func NewService(store *clinicdata.Store, repo clinicdata.Repository, automation AutomationTrigger, kicker CycleKicker, m *metrics.ClinicMetrics, defaultDoctor string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		panic("booking: store cannot be nil")
	}
	if repo == nil {
		panic("booking: repository cannot be nil")
	}
	return &Service{
		store:         store,
		repo:          repo,
		automation:    automation,
		kicker:        kicker,
		metrics:       m,
		logger:        logger,
		defaultDoctor: defaultDoctor,
	}
}

// CreateAppointment validates and records a booking, upserts the patient,
// persists the document, and dispatches the no-wait side effects. A failed
// persist is logged but does not fail the booking; the in-memory record
// survives and the next reconciliation persist retries the write.
func (s *Service) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (clinicdata.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		return clinicdata.Appointment{}, err
	}

	appt := clinicdata.Appointment{
		Patient: req.Patient,
		Phone:   req.Phone,
		Age:     req.Age,
		Date:    req.Date,
		Time:    req.Time,
		Type:    req.Type,
		Doctor:  req.Doctor,
		Status:  req.Status,
		Source:  req.Source,
		Notes:   req.Notes,
	}
	if appt.Doctor == "" {
		appt.Doctor = s.defaultDoctor
	}
	if appt.Status == "" {
		appt.Status = clinicdata.StatusConfirmed
	}
	if appt.Notes == "" {
		appt.Notes = "Booked online"
	}

	appt = s.store.AddAppointment(appt)
	_, created := s.store.EnsurePatient(appt)
	span.SetAttributes(
		attribute.Int64("clinic.appointment_id", appt.ID),
		attribute.String("clinic.treatment", appt.Type),
		attribute.Bool("clinic.new_patient", created),
	)

	if err := s.repo.Save(ctx, s.store.Snapshot()); err != nil {
		s.logger.Error("persist after booking failed", "error", err, "appointment_id", appt.ID)
		s.metrics.ObservePersistFailure()
	}

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"patient", appt.Patient,
		"treatment", appt.Type,
		"source", appt.Source,
		"new_patient", created,
	)
	s.metrics.ObserveBooking(appt.Source)

	if s.automation != nil {
		s.automation.NotifyBooking(appt)
	}
	if s.kicker != nil {
		s.kicker.Kick()
	}
	return appt, nil
}

// Summary renders the booking in the confirmation message format the chat
// channel sends to patients.
func Summary(appt clinicdata.Appointment) string {
	return fmt.Sprintf("Name: %s\nDate: %s\nTime: %s\nTreatment: %s\nDoctor: %s",
		appt.Patient, appt.Date, appt.Time, appt.Type, appt.Doctor)
}
