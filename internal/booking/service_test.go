package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
)

type fakeRepo struct {
	saved int
	err   error
}

func (r *fakeRepo) Load(ctx context.Context) (*clinicdata.Document, error) {
	return &clinicdata.Document{}, nil
}

func (r *fakeRepo) Save(ctx context.Context, doc *clinicdata.Document) error {
	r.saved++
	return r.err
}

type fakeKicker struct{ kicks int }

func (k *fakeKicker) Kick() { k.kicks++ }

type fakeTrigger struct{ appts []clinicdata.Appointment }

func (t *fakeTrigger) NotifyBooking(appt clinicdata.Appointment) {
	t.appts = append(t.appts, appt)
}

func newTestService() (*Service, *clinicdata.Store, *fakeRepo, *fakeKicker, *fakeTrigger) {
	store := clinicdata.NewStore(&clinicdata.Document{})
	repo := &fakeRepo{}
	kicker := &fakeKicker{}
	trigger := &fakeTrigger{}
	svc := NewService(store, repo, trigger, kicker, nil, "Dr. Sarah Wilson", nil)
	return svc, store, repo, kicker, trigger
}

func TestCreateAppointmentDefaults(t *testing.T) {
	svc, store, repo, kicker, trigger := newTestService()

	appt, err := svc.CreateAppointment(context.Background(), CreateAppointmentRequest{
		Patient: "Jane Doe",
		Date:    "2024-03-01",
		Time:    "10:00 AM",
		Type:    "Dental Cleaning",
	})
	require.NoError(t, err)

	assert.NotZero(t, appt.ID)
	assert.Equal(t, clinicdata.StatusConfirmed, appt.Status)
	assert.Equal(t, "Dr. Sarah Wilson", appt.Doctor)
	assert.Equal(t, "Booked online", appt.Notes)

	assert.Len(t, store.Appointments(), 1)
	assert.Len(t, store.Patients(), 1, "new patient created alongside the booking")
	assert.Equal(t, 1, repo.saved)
	assert.Equal(t, 1, kicker.kicks)
	require.Len(t, trigger.appts, 1)
	assert.Equal(t, appt.ID, trigger.appts[0].ID)
}

func TestCreateAppointmentExistingPatient(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.EnsurePatient(clinicdata.Appointment{Patient: "Jane Doe", Phone: "5551234"})

	_, err := svc.CreateAppointment(context.Background(), CreateAppointmentRequest{
		Patient: "Jane Doe",
		Phone:   "5551234",
		Date:    "2024-03-01",
		Time:    "10:00 AM",
		Type:    "Consultation",
	})
	require.NoError(t, err)
	assert.Len(t, store.Patients(), 1, "matching patient left untouched")
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, store, repo, _, _ := newTestService()

	tests := []struct {
		name string
		req  CreateAppointmentRequest
	}{
		{"missing name", CreateAppointmentRequest{Date: "2024-03-01", Time: "10:00 AM", Type: "Checkup"}},
		{"single char name", CreateAppointmentRequest{Patient: "J", Date: "2024-03-01", Time: "10:00 AM", Type: "Checkup"}},
		{"numeric name", CreateAppointmentRequest{Patient: "Jane123", Date: "2024-03-01", Time: "10:00 AM", Type: "Checkup"}},
		{"missing date", CreateAppointmentRequest{Patient: "Jane Doe", Time: "10:00 AM", Type: "Checkup"}},
		{"missing time", CreateAppointmentRequest{Patient: "Jane Doe", Date: "2024-03-01", Type: "Checkup"}},
		{"missing type", CreateAppointmentRequest{Patient: "Jane Doe", Date: "2024-03-01", Time: "10:00 AM"}},
		{"non-numeric phone", CreateAppointmentRequest{Patient: "Jane Doe", Phone: "call me", Date: "2024-03-01", Time: "10:00 AM", Type: "Checkup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, store.Appointments())
	assert.Zero(t, repo.saved)
}

func TestCreateAppointmentSurvivesPersistFailure(t *testing.T) {
	svc, store, repo, _, _ := newTestService()
	repo.err = errors.New("disk full")

	appt, err := svc.CreateAppointment(context.Background(), CreateAppointmentRequest{
		Patient: "Jane Doe",
		Date:    "2024-03-01",
		Time:    "10:00 AM",
		Type:    "Checkup",
	})
	require.NoError(t, err, "booking succeeds even when the write fails")
	assert.NotZero(t, appt.ID)
	assert.Len(t, store.Appointments(), 1, "in-memory state retained")
}

func TestRapidBookingsGetDistinctIDs(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateAppointment(ctx, CreateAppointmentRequest{
			Patient: "Mike Brown",
			Date:    "2024-03-01",
			Time:    "11:30 AM",
			Type:    "Checkup",
		})
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	for _, a := range store.Appointments() {
		assert.False(t, seen[a.ID], "duplicate appointment id %d", a.ID)
		seen[a.ID] = true
	}
}
