// Package router wires the chi router for the clinic API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smiledental/clinic-platform/internal/http/handlers"
	httpmiddleware "github.com/smiledental/clinic-platform/internal/http/middleware"
	"github.com/smiledental/clinic-platform/internal/whatsapp"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Appointments       *handlers.AppointmentsHandler
	Patients           *handlers.PatientsHandler
	Messages           *handlers.MessagesHandler
	Doctors            *handlers.DoctorsHandler
	Slots              *handlers.SlotsHandler
	Health             *handlers.HealthHandler
	WhatsApp           *whatsapp.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", cfg.Health.Root)
	r.Post("/incoming-whatsapp", cfg.WhatsApp.Webhook)

	r.Route("/api", func(api chi.Router) {
		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.Appointments.List)
			r.Post("/", cfg.Appointments.Create)
			r.Delete("/{id}", cfg.Appointments.Delete)
		})
		api.Route("/patients", func(r chi.Router) {
			r.Get("/", cfg.Patients.List)
			r.Delete("/{id}", cfg.Patients.Delete)
		})
		api.Route("/messages", func(r chi.Router) {
			r.Get("/", cfg.Messages.List)
			r.Post("/", cfg.Messages.Create)
		})
		api.Route("/doctors", func(r chi.Router) {
			r.Get("/", cfg.Doctors.List)
			r.Post("/", cfg.Doctors.Create)
			r.Delete("/{id}", cfg.Doctors.Delete)
		})
		api.Get("/available-slots", cfg.Slots.List)
		api.Get("/system/health", cfg.Health.Health)
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	return r
}
