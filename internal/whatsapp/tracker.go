// Package whatsapp implements the conversational booking bot: a per-sender
// state machine that turns a scripted WhatsApp dialogue into a confirmed
// appointment.
package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/smiledental/clinic-platform/internal/booking"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// treatments maps the numbered menu options to treatment names. Input that
// matches no option is stored verbatim.
var treatments = map[string]string{
	"1": "General Checkup",
	"2": "Dental Cleaning",
	"3": "Root Canal",
	"4": "Teeth Whitening",
	"5": "Orthodontics",
	"6": "Other",
}

// Booker materializes a completed dialogue into an appointment.
type Booker interface {
	CreateAppointment(ctx context.Context, req booking.CreateAppointmentRequest) (clinicdata.Appointment, error)
}

// Tracker drives the booking dialogue. One inbound message in, exactly one
// reply out; it never panics past Reply.
type Tracker struct {
	sessions   SessionStore
	bookings   Booker
	logger     *logging.Logger
	clinicName string
}

// NewTracker wires a tracker.
func NewTracker(sessions SessionStore, bookings Booker, clinicName string, logger *logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.Default()
	}
	if sessions == nil {
		panic("whatsapp: session store cannot be nil")
	}
	if bookings == nil {
		panic("whatsapp: booker cannot be nil")
	}
	if clinicName == "" {
		clinicName = "Smile Dental Clinic"
	}
	return &Tracker{
		sessions:   sessions,
		bookings:   bookings,
		logger:     logger,
		clinicName: clinicName,
	}
}

// Reply processes one inbound message and returns the bot's answer. Global
// keywords are matched case-insensitively and win over step continuation,
// with one exception: purely numeric input while a flow is active is consumed
// by the current step, so menu choices like "1" cannot restart the dialogue.
// Informational keywords leave the step pointer unchanged.
func (t *Tracker) Reply(ctx context.Context, from, body string) string {
	raw := strings.TrimSpace(body)
	lower := strings.ToLower(raw)

	sess, err := t.sessions.Get(ctx, from)
	if err != nil {
		t.logger.Error("session read failed", "error", err, "from", from)
		sess = nil
	}
	active := sess != nil && sess.Step != StepNone

	if !(active && isNumeric(lower)) {
		if reply, handled := t.handleKeyword(ctx, from, lower, active); handled {
			return reply
		}
	}

	if active {
		return t.advance(ctx, from, sess, raw, lower)
	}
	return t.welcome()
}

// handleKeyword serves the globally reachable intents. It reports false when
// the input is not a keyword so the caller can continue the active step.
func (t *Tracker) handleKeyword(ctx context.Context, from, lower string, active bool) (string, bool) {
	switch lower {
	case "hi", "hello", "hey", "hy", "start":
		return t.mainMenu(), true
	case "book":
		return t.startFlow(ctx, from), true
	case "1":
		if !active {
			return t.startFlow(ctx, from), true
		}
	case "cancel":
		if err := t.sessions.Delete(ctx, from); err != nil {
			t.logger.Error("session delete failed", "error", err, "from", from)
		}
		return "Your booking request has been cancelled. Send *hi* anytime to start again.", true
	case "menu", "help":
		return t.mainMenu(), true
	case "services", "2":
		if lower == "services" || !active {
			return "We offer:\n1. General Checkup\n2. Dental Cleaning\n3. Root Canal\n4. Teeth Whitening\n5. Orthodontics\n6. Emergency Dental Care\n\nSend *book* to make an appointment.", true
		}
	case "hours", "3":
		if lower == "hours" || !active {
			return "Clinic hours:\nMonday - Friday: 9:00 AM - 6:00 PM\nSaturday: 10:00 AM - 4:00 PM\nSunday: Closed", true
		}
	case "location", "4":
		if lower == "location" || !active {
			return "You can find us at 123 Dental Street, Healthcare City.\nPhone: +91 6303551518", true
		}
	}
	return "", false
}

// startFlow begins (or restarts) the booking dialogue for a sender.
func (t *Tracker) startFlow(ctx context.Context, from string) string {
	sess := &Session{Step: StepName}
	if err := t.sessions.Put(ctx, from, sess); err != nil {
		t.logger.Error("session write failed", "error", err, "from", from)
		return t.genericFailure()
	}
	return "Great! Let's book your appointment.\n\nPlease send your full name."
}

// advance applies the sender's input to the current step.
func (t *Tracker) advance(ctx context.Context, from string, sess *Session, raw, lower string) string {
	if raw == "" {
		return t.welcome()
	}

	switch sess.Step {
	case StepName:
		sess.Name = raw
		sess.Step = StepPhone
		return t.save(ctx, from, sess, "Thanks, "+raw+"! Now send your phone number.")
	case StepPhone:
		sess.Phone = raw
		sess.Step = StepTreatment
		return t.save(ctx, from, sess, "Which treatment do you need?\n\n1. General Checkup\n2. Dental Cleaning\n3. Root Canal\n4. Teeth Whitening\n5. Orthodontics\n6. Other\n\nReply with a number or describe it.")
	case StepTreatment:
		if name, ok := treatments[lower]; ok {
			sess.Treatment = name
		} else {
			sess.Treatment = raw
		}
		sess.Step = StepDate
		return t.save(ctx, from, sess, "When would you like to come in? (e.g. 2024-03-01)")
	case StepDate:
		sess.Date = raw
		sess.Step = StepTime
		return t.save(ctx, from, sess, "What time suits you? (e.g. 10:00 AM)")
	case StepTime:
		sess.Time = raw
		sess.Step = StepConfirm
		summary := fmt.Sprintf("Please confirm your appointment:\n\nName: %s\nPhone: %s\nTreatment: %s\nDate: %s\nTime: %s\n\nReply *confirm* to book or *cancel* to abort.",
			sess.Name, sess.Phone, sess.Treatment, sess.Date, sess.Time)
		return t.save(ctx, from, sess, summary)
	case StepConfirm:
		if lower != "confirm" {
			return "Reply *confirm* to book your appointment or *cancel* to abort."
		}
		return t.confirm(ctx, from, sess)
	default:
		return t.welcome()
	}
}

// confirm books the collected fields and clears the session.
func (t *Tracker) confirm(ctx context.Context, from string, sess *Session) string {
	appt, err := t.bookings.CreateAppointment(ctx, booking.CreateAppointmentRequest{
		Patient: sess.Name,
		Phone:   sess.Phone,
		Type:    sess.Treatment,
		Date:    sess.Date,
		Time:    sess.Time,
		Status:  clinicdata.StatusConfirmed,
		Source:  "WhatsApp",
		Notes:   "Booked via WhatsApp",
	})
	if err != nil {
		// Keep the session so the sender can cancel or retry.
		t.logger.Error("whatsapp booking failed", "error", err, "from", from)
		return t.genericFailure()
	}
	if err := t.sessions.Delete(ctx, from); err != nil {
		t.logger.Error("session delete failed", "error", err, "from", from)
	}
	return fmt.Sprintf("Your appointment is booked!\n\n%s\n\nSee you soon at %s.", booking.Summary(appt), t.clinicName)
}

func (t *Tracker) save(ctx context.Context, from string, sess *Session, reply string) string {
	if err := t.sessions.Put(ctx, from, sess); err != nil {
		t.logger.Error("session write failed", "error", err, "from", from)
		return t.genericFailure()
	}
	return reply
}

func (t *Tracker) mainMenu() string {
	return fmt.Sprintf("Welcome to %s! How can I assist you today?\n\n1. Book an appointment (*book*)\n2. Our services (*services*)\n3. Clinic hours (*hours*)\n4. Location (*location*)\n\nReply *cancel* anytime to abort a booking.", t.clinicName)
}

func (t *Tracker) welcome() string {
	return fmt.Sprintf("Welcome to %s! Send *hi* for the menu or *book* to make an appointment.", t.clinicName)
}

func (t *Tracker) genericFailure() string {
	return "Sorry, something went wrong on our side. Please try again in a moment."
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
