package clinicdata

import "time"

// Appointment status values.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
)

// Priority values assigned by the confirm pass.
const (
	PriorityNormal = "Normal"
	PriorityHigh   = "High"
)

// NotificationState tracks whether a booking notification went out. The
// original store mixed a boolean with a "Simulated" sentinel; here the union
// is flattened into one string enum.
type NotificationState string

const (
	NotificationNone      NotificationState = ""
	NotificationSent      NotificationState = "sent"
	NotificationSimulated NotificationState = "Simulated"
)

// Truthy reports whether a notification has already been handled, either by a
// real send or by the simulated channel.
func (n NotificationState) Truthy() bool {
	return n != NotificationNone
}

// Appointment is a clinic booking. Priority, Notified and CalendarSync start
// empty and are filled in by the reconciliation passes; once set they are
// never recomputed.
type Appointment struct {
	ID           int64             `json:"id"`
	Patient      string            `json:"patient"`
	Phone        string            `json:"phone,omitempty"`
	Age          string            `json:"age,omitempty"`
	Date         string            `json:"date"` // YYYY-MM-DD by convention, stored verbatim
	Time         string            `json:"time"` // 12-hour clock, e.g. "10:00 AM"
	Type         string            `json:"type"`
	Doctor       string            `json:"doctor"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority,omitempty"`     // set by confirm pass
	Notified     NotificationState `json:"notified,omitempty"`     // set by notify pass
	CalendarSync string            `json:"calendarSync,omitempty"` // set by calendar pass
	Source       string            `json:"source,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

// Patient is a clinic patient record, matched to appointments by name/phone
// string equality only.
type Patient struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       string `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LastVisit string `json:"lastVisit,omitempty"`
	Condition string `json:"condition,omitempty"`
	NextAppt  string `json:"nextAppt,omitempty"`
}

// Message is an inbox entry addressed to a role. Only the Read flag mutates
// after creation.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Role      string    `json:"role"` // "doctor" or "patient"
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// Doctor is a clinic staff record, referenced from appointments by name only.
type Doctor struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Patients  int     `json:"patients"`
	Rating    float64 `json:"rating"`
	Available bool    `json:"available"`
	Image     string  `json:"image,omitempty"`
}

// Document is the whole persisted dataset: four flat collections serialized
// as a single JSON document.
type Document struct {
	Appointments []Appointment `json:"appointments"`
	Patients     []Patient     `json:"patients"`
	Messages     []Message     `json:"messages"`
	Doctors      []Doctor      `json:"doctors"`
}

// Clone returns a deep copy so callers can hand snapshots across goroutines.
func (d *Document) Clone() *Document {
	out := &Document{
		Appointments: make([]Appointment, len(d.Appointments)),
		Patients:     make([]Patient, len(d.Patients)),
		Messages:     make([]Message, len(d.Messages)),
		Doctors:      make([]Doctor, len(d.Doctors)),
	}
	copy(out.Appointments, d.Appointments)
	copy(out.Patients, d.Patients)
	copy(out.Messages, d.Messages)
	copy(out.Doctors, d.Doctors)
	return out
}
