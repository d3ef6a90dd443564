// Package automation triggers an external workflow webhook whenever a new
// booking is created. Delivery is best effort: failures are logged and never
// reach the booking response path.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// Trigger posts appointment payloads to a configured webhook URL.
type Trigger struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTrigger creates a trigger. An empty URL disables it.
func NewTrigger(url string, logger *logging.Logger) *Trigger {
	if logger == nil {
		logger = logging.Default()
	}
	return &Trigger{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (t *Trigger) Enabled() bool {
	return t != nil && t.url != ""
}

// NotifyBooking fires the webhook in the background and returns immediately.
func (t *Trigger) NotifyBooking(appt clinicdata.Appointment) {
	if !t.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.post(ctx, appt); err != nil {
			t.logger.Error("automation webhook failed", "error", err, "appointment_id", appt.ID)
		}
	}()
}

func (t *Trigger) post(ctx context.Context, appt clinicdata.Appointment) error {
	payload, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("automation: marshal appointment: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("automation: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("automation: post webhook: %w", err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("automation: webhook returned status %d", resp.StatusCode)
	}
	t.logger.Info("automation webhook triggered", "appointment_id", appt.ID)
	return nil
}
