package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiledental/clinic-platform/internal/booking"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
)

type trackerRepo struct{}

func (trackerRepo) Load(ctx context.Context) (*clinicdata.Document, error) {
	return &clinicdata.Document{}, nil
}

func (trackerRepo) Save(ctx context.Context, doc *clinicdata.Document) error { return nil }

func newTestTracker(t *testing.T) (*Tracker, *clinicdata.Store) {
	t.Helper()
	store := clinicdata.NewStore(&clinicdata.Document{})
	svc := booking.NewService(store, trackerRepo{}, nil, nil, nil, "Dr. Sarah Wilson", nil)
	tracker := NewTracker(NewMemorySessionStore(0), svc, "Smile Dental Clinic", nil)
	return tracker, store
}

func TestBookingDialogue(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	reply := tracker.Reply(ctx, from, "hi")
	assert.Contains(t, reply, "Smile Dental Clinic")

	reply = tracker.Reply(ctx, from, "book")
	assert.Contains(t, reply, "full name")

	reply = tracker.Reply(ctx, from, "Jane Doe")
	assert.Contains(t, reply, "phone number")

	reply = tracker.Reply(ctx, from, "5551234")
	assert.Contains(t, reply, "treatment")

	reply = tracker.Reply(ctx, from, "2")
	assert.Contains(t, reply, "When")

	reply = tracker.Reply(ctx, from, "Friday")
	assert.Contains(t, reply, "time")

	reply = tracker.Reply(ctx, from, "10:00 AM")
	assert.Contains(t, reply, "confirm")
	assert.Contains(t, reply, "Dental Cleaning")

	reply = tracker.Reply(ctx, from, "confirm")
	assert.Contains(t, reply, "booked")

	appts := store.Appointments()
	require.Len(t, appts, 1)
	appt := appts[0]
	assert.Equal(t, "Jane Doe", appt.Patient)
	assert.Equal(t, "5551234", appt.Phone)
	assert.Equal(t, "Dental Cleaning", appt.Type)
	assert.Equal(t, "Friday", appt.Date)
	assert.Equal(t, "10:00 AM", appt.Time)
	assert.Equal(t, clinicdata.StatusConfirmed, appt.Status)
	assert.Equal(t, "WhatsApp", appt.Source)
	assert.Equal(t, "Dr. Sarah Wilson", appt.Doctor)

	patients := store.Patients()
	require.Len(t, patients, 1)
	assert.Equal(t, "Jane Doe", patients[0].Name)

	// Session is cleared: a fresh dialogue starts over.
	reply = tracker.Reply(ctx, from, "Monday")
	assert.Contains(t, reply, "Welcome")
}

func TestCancelClearsSession(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	tracker.Reply(ctx, from, "Jane Doe")

	reply := tracker.Reply(ctx, from, "cancel")
	assert.Contains(t, reply, "cancelled")
	assert.Empty(t, store.Appointments())

	// The old name must not resume: the next message is not a step answer.
	reply = tracker.Reply(ctx, from, "5551234")
	assert.Contains(t, reply, "Welcome")
}

func TestKeywordsWinOverActiveStep(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	reply := tracker.Reply(ctx, from, "HELLO")
	assert.Contains(t, reply, "How can I assist")

	// The menu reply does not advance the flow: the next message is still
	// the name.
	reply = tracker.Reply(ctx, from, "Jane Doe")
	assert.Contains(t, reply, "phone number")
}

func TestNumericInputFeedsActiveStep(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	tracker.Reply(ctx, from, "Jane Doe")
	tracker.Reply(ctx, from, "5551234")

	// "1" while choosing a treatment selects option 1, it does not restart
	// the flow.
	reply := tracker.Reply(ctx, from, "1")
	assert.Contains(t, reply, "When")

	tracker.Reply(ctx, from, "Friday")
	tracker.Reply(ctx, from, "10:00 AM")
	tracker.Reply(ctx, from, "confirm")

	appts := store.Appointments()
	require.Len(t, appts, 1)
	assert.Equal(t, "General Checkup", appts[0].Type)
}

func TestInformationalKeywordLeavesStepUnchanged(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	reply := tracker.Reply(ctx, from, "hours")
	assert.Contains(t, reply, "Clinic hours")

	reply = tracker.Reply(ctx, from, "Jane Doe")
	assert.Contains(t, reply, "phone number")
}

func TestFreeTextTreatmentStoredVerbatim(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	tracker.Reply(ctx, from, "Jane Doe")
	tracker.Reply(ctx, from, "5551234")
	tracker.Reply(ctx, from, "wisdom tooth pain")
	tracker.Reply(ctx, from, "Friday")
	tracker.Reply(ctx, from, "10:00 AM")
	tracker.Reply(ctx, from, "confirm")

	appts := store.Appointments()
	require.Len(t, appts, 1)
	assert.Equal(t, "wisdom tooth pain", appts[0].Type)
}

func TestConfirmStepRequiresConfirm(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	tracker.Reply(ctx, from, "Jane Doe")
	tracker.Reply(ctx, from, "5551234")
	tracker.Reply(ctx, from, "2")
	tracker.Reply(ctx, from, "Friday")
	tracker.Reply(ctx, from, "10:00 AM")

	reply := tracker.Reply(ctx, from, "yes please")
	assert.Contains(t, reply, "*confirm*")
	assert.Empty(t, store.Appointments())

	reply = tracker.Reply(ctx, from, "CONFIRM")
	assert.Contains(t, reply, "booked")
	assert.Len(t, store.Appointments(), 1)
}

func TestUnknownInputWithoutSession(t *testing.T) {
	tracker, _ := newTestTracker(t)

	reply := tracker.Reply(context.Background(), "whatsapp:+15551234", "what is this")
	assert.Contains(t, reply, "Welcome")
}

func TestBookingFailureKeepsSession(t *testing.T) {
	tracker, store := newTestTracker(t)
	ctx := context.Background()
	const from = "whatsapp:+15551234"

	tracker.Reply(ctx, from, "book")
	tracker.Reply(ctx, from, "J") // too short, rejected at confirm time
	tracker.Reply(ctx, from, "5551234")
	tracker.Reply(ctx, from, "2")
	tracker.Reply(ctx, from, "Friday")
	tracker.Reply(ctx, from, "10:00 AM")

	reply := tracker.Reply(ctx, from, "confirm")
	assert.Contains(t, reply, "went wrong")
	assert.Empty(t, store.Appointments())

	// Session survives so the sender can cancel cleanly.
	reply = tracker.Reply(ctx, from, "cancel")
	assert.Contains(t, reply, "cancelled")
}
