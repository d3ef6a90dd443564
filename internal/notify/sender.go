// Package notify delivers outbound WhatsApp notifications for confirmed
// bookings.
package notify

import "context"

// Messenger sends one outbound message to a patient address. A send failure
// is reported to the caller and never raised further; the reconciliation
// pass decides whether to retry.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
	// Enabled reports whether the channel is configured. When it is not,
	// the notification pass records deliveries as simulated instead of
	// attempting a send.
	Enabled() bool
}
