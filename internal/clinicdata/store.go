package clinicdata

import (
	"sync"
	"time"
)

// Store holds the working copy of the clinic document. All access goes
// through one mutex; the original service let concurrent writers race, this
// keeps writes serialized within the process (persist calls can still
// interleave across processes, which stays a last-writer-wins model).
type Store struct {
	mu     sync.RWMutex
	doc    *Document
	lastID int64
}

// NewStore wraps a loaded document.
func NewStore(doc *Document) *Store {
	if doc == nil {
		doc = &Document{}
	}
	return &Store{doc: doc}
}

// NextID allocates a millisecond-timestamp identifier, bumped when two
// allocations land in the same millisecond.
func (s *Store) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked()
}

func (s *Store) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Snapshot returns a deep copy of the current document for persistence or
// read-only handlers.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Appointments returns a copy of the appointment collection.
func (s *Store) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.doc.Appointments))
	copy(out, s.doc.Appointments)
	return out
}

// AddAppointment appends an appointment, allocating its ID when unset.
func (s *Store) AddAppointment(appt Appointment) Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appt.ID == 0 {
		appt.ID = s.nextIDLocked()
	}
	s.doc.Appointments = append(s.doc.Appointments, appt)
	return appt
}

// DeleteAppointment removes an appointment by ID and reports whether any
// record matched.
func (s *Store) DeleteAppointment(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Appointments[:0]
	removed := false
	for _, a := range s.doc.Appointments {
		if a.ID == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.doc.Appointments = kept
	return removed
}

// UpdateAppointments runs fn over every appointment in place and reports
// whether fn mutated at least one record. The reconciliation passes use this
// so a whole sweep happens under one lock acquisition.
func (s *Store) UpdateAppointments(fn func(a *Appointment) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.doc.Appointments {
		if fn(&s.doc.Appointments[i]) {
			changed = true
		}
	}
	return changed
}

// Patients returns a copy of the patient collection.
func (s *Store) Patients() []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Patient, len(s.doc.Patients))
	copy(out, s.doc.Patients)
	return out
}

// EnsurePatient creates a patient record when no existing patient matches the
// booking's name or phone. Existing records are left untouched.
func (s *Store) EnsurePatient(appt Appointment) (Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.doc.Patients {
		if p.Name == appt.Patient || (appt.Phone != "" && p.Phone == appt.Phone) {
			return p, false
		}
	}
	patient := Patient{
		ID:        s.nextIDLocked(),
		Name:      appt.Patient,
		Age:       orDefault(appt.Age, "N/A"),
		Phone:     orDefault(appt.Phone, "N/A"),
		LastVisit: "First Visit",
		Condition: "New Patient",
		NextAppt:  appt.Date,
	}
	s.doc.Patients = append(s.doc.Patients, patient)
	return patient, true
}

// DeletePatient removes a patient by ID.
func (s *Store) DeletePatient(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Patients[:0]
	removed := false
	for _, p := range s.doc.Patients {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.doc.Patients = kept
	return removed
}

// Messages returns a copy of the message collection.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.doc.Messages))
	copy(out, s.doc.Messages)
	return out
}

// AddMessage appends a message, stamping ID and timestamp when unset.
func (s *Store) AddMessage(msg Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == 0 {
		msg.ID = s.nextIDLocked()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.doc.Messages = append(s.doc.Messages, msg)
	return msg
}

// PrependMessage inserts a message at the head of the inbox. System alerts
// from the reconciliation agents land first so they surface on top.
func (s *Store) PrependMessage(msg Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == 0 {
		msg.ID = s.nextIDLocked()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.doc.Messages = append([]Message{msg}, s.doc.Messages...)
	return msg
}

// Doctors returns a copy of the doctor collection.
func (s *Store) Doctors() []Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Doctor, len(s.doc.Doctors))
	copy(out, s.doc.Doctors)
	return out
}

// AddDoctor appends a doctor, allocating its ID when unset.
func (s *Store) AddDoctor(doc Doctor) Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == 0 {
		doc.ID = s.nextIDLocked()
	}
	s.doc.Doctors = append(s.doc.Doctors, doc)
	return doc
}

// DeleteDoctor removes a doctor by ID.
func (s *Store) DeleteDoctor(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Doctors[:0]
	removed := false
	for _, d := range s.doc.Doctors {
		if d.ID == id {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	s.doc.Doctors = kept
	return removed
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
