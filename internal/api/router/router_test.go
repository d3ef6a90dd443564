package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiledental/clinic-platform/internal/agentlog"
	"github.com/smiledental/clinic-platform/internal/booking"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
	"github.com/smiledental/clinic-platform/internal/http/handlers"
	"github.com/smiledental/clinic-platform/internal/reconcile"
	"github.com/smiledental/clinic-platform/internal/whatsapp"
)

type nopRepo struct{}

func (nopRepo) Load(ctx context.Context) (*clinicdata.Document, error) {
	return &clinicdata.Document{}, nil
}

func (nopRepo) Save(ctx context.Context, doc *clinicdata.Document) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := clinicdata.NewStore(clinicdata.SeedDocument())
	repo := nopRepo{}
	sink := agentlog.NewRingSink(nil)
	svc := booking.NewService(store, repo, nil, nil, nil, "Dr. Sarah Wilson", nil)
	rec := reconcile.New(store, repo, nil, sink, nil, nil)
	tracker := whatsapp.NewTracker(whatsapp.NewMemorySessionStore(0), svc, "Smile Dental Clinic", nil)

	return New(&Config{
		Appointments:       handlers.NewAppointmentsHandler(store, repo, svc, nil),
		Patients:           handlers.NewPatientsHandler(store, repo, nil),
		Messages:           handlers.NewMessagesHandler(store, repo, nil),
		Doctors:            handlers.NewDoctorsHandler(store, repo, nil),
		Slots:              handlers.NewSlotsHandler(store),
		Health:             handlers.NewHealthHandler(rec, sink),
		WhatsApp:           whatsapp.NewHandler(tracker, "", "", nil, nil),
		MetricsHandler:     promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	})
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/api/appointments", "", http.StatusOK},
		{http.MethodGet, "/api/patients", "", http.StatusOK},
		{http.MethodGet, "/api/messages", "", http.StatusOK},
		{http.MethodGet, "/api/doctors", "", http.StatusOK},
		{http.MethodGet, "/api/available-slots", "", http.StatusOK},
		{http.MethodGet, "/api/system/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
		{http.MethodPost, "/api/appointments", `{}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestWhatsAppRoute(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{"From": {"whatsapp:+15551234"}, "Body": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/incoming-whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<Response><Message>")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
