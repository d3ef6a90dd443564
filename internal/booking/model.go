package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CreateAppointmentRequest carries the fields a caller may supply when
// booking. The HTTP form and the WhatsApp tracker both build one of these.
type CreateAppointmentRequest struct {
	Patient string `json:"patient"`
	Phone   string `json:"phone,omitempty"`
	Age     string `json:"age,omitempty"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Type    string `json:"type"`
	Doctor  string `json:"doctor,omitempty"`
	Status  string `json:"status,omitempty"`
	Source  string `json:"source,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

var (
	ErrNameRequired = errors.New("booking: patient name is required")
	ErrDateRequired = errors.New("booking: date is required")
	ErrTimeRequired = errors.New("booking: time is required")

	nameRe  = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	digitRe = regexp.MustCompile(`\D`)
)

// Validate checks the booking fields. Date and time are required but stored
// verbatim; calendar validity is the reconciliation loop's concern.
func (r *CreateAppointmentRequest) Validate() error {
	name := strings.TrimSpace(r.Patient)
	switch {
	case name == "":
		return ErrNameRequired
	case len(name) < 2:
		return errors.New("booking: patient name must be at least 2 characters")
	case len(name) > 50:
		return errors.New("booking: patient name must be less than 50 characters")
	case !nameRe.MatchString(name):
		return errors.New("booking: patient name can only contain letters, spaces, and basic punctuation")
	}

	if strings.TrimSpace(r.Date) == "" {
		return ErrDateRequired
	}
	if strings.TrimSpace(r.Time) == "" {
		return ErrTimeRequired
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("booking: treatment type is required")
	}

	// Phone is optional and stored as given; chat bookings arrive with
	// short local numbers, so only plainly non-numeric values are rejected.
	if r.Phone != "" {
		digits := digitRe.ReplaceAllString(r.Phone, "")
		if digits == "" {
			return fmt.Errorf("booking: phone number %q contains no digits", r.Phone)
		}
	}
	return nil
}
