package whatsapp

import (
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smiledental/clinic-platform/internal/observability/metrics"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

var webhookTracer = otel.Tracer("clinic.internal.whatsapp")

// twiml is the reply envelope Twilio expects from a messaging webhook.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Handler receives inbound WhatsApp webhooks and answers with TwiML.
type Handler struct {
	tracker       *Tracker
	webhookSecret string
	publicBaseURL string
	metrics       *metrics.ClinicMetrics
	logger        *logging.Logger
}

// NewHandler creates a webhook handler. An empty webhookSecret disables
// signature validation; metrics may be nil.
func NewHandler(tracker *Tracker, webhookSecret, publicBaseURL string, m *metrics.ClinicMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if tracker == nil {
		panic("whatsapp: tracker cannot be nil")
	}
	return &Handler{
		tracker:       tracker,
		webhookSecret: webhookSecret,
		publicBaseURL: publicBaseURL,
		metrics:       m,
		logger:        logger,
	}
}

// Webhook handles POST /incoming-whatsapp requests.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "whatsapp.webhook")
	defer span.End()

	if h.webhookSecret != "" {
		if !ValidateSignature(r, h.webhookSecret, h.webhookURL(r)) {
			h.logger.Warn("invalid webhook signature")
			h.metrics.ObserveInbound("unauthorized")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			span.RecordError(errors.New("invalid webhook signature"))
			return
		}
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Error("failed to parse webhook form", "error", err)
		h.metrics.ObserveInbound("bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}
	from := r.FormValue("From")
	body := r.FormValue("Body")
	span.SetAttributes(attribute.String("clinic.whatsapp.from", from))

	if from == "" {
		err := errors.New("missing From field")
		h.logger.Error("invalid webhook payload", "error", err)
		h.metrics.ObserveInbound("bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}

	reply := h.tracker.Reply(ctx, from, body)
	h.metrics.ObserveInbound("ok")

	out, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		h.logger.Error("failed to render reply", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		span.RecordError(err)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	w.Write(out)
}

// webhookURL reconstructs the URL Twilio signed. The configured public base
// wins when set; behind a proxy the request host is not the signed host.
func (h *Handler) webhookURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return strings.TrimRight(h.publicBaseURL, "/") + r.URL.Path
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
