package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/dashboard"
	"github.com/hackgods/medai-console/internal/diagnostic"
	"github.com/hackgods/medai-console/internal/patient"
)

type RouterConfig struct {
	Auth         *auth.Service
	Patients     *patient.Service
	Appointments *appointment.Service
	Diagnostics  *diagnostic.Service
	Dashboard    *dashboard.Service

	PgPool *pgxpool.Pool // optional
	Redis  *redis.Client // optional

	Logger         zerolog.Logger
	CORSOrigins    []string
	MaxUploadBytes int64
	Env            string
	Version        string
	Now            func() time.Time
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("MedAI API is running"))
	})

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(cfg.Auth))
		r.Post("/auth/login", loginHandler(cfg.Auth))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Auth))

			r.Get("/auth/me", meHandler(cfg.Auth))
			r.Put("/auth/profile", updateProfileHandler(cfg.Auth))

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", listPatientsHandler(cfg.Patients))
				r.Post("/", createPatientHandler(cfg.Patients))
				r.Get("/{id}", getPatientHandler(cfg.Patients))
				r.Put("/{id}", updatePatientHandler(cfg.Patients))
				r.Delete("/{id}", deletePatientHandler(cfg.Patients))
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", listAppointmentsHandler(cfg.Appointments))
				r.Post("/", createAppointmentHandler(cfg.Appointments))
				r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
				r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
				r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
			})

			r.Post("/ai/analyze-symptoms", analyzeSymptomsHandler(cfg.Diagnostics))
			r.Post("/ai/analyze-image", analyzeImageHandler(cfg.Diagnostics, cfg.MaxUploadBytes))

			r.Get("/dashboard/stats", dashboardStatsHandler(cfg.Dashboard, cfg.Now))
		})
	})

	return r
}
