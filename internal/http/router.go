package httpapi

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zakatku-backend/internal/domain"
	"zakatku-backend/internal/http/handlers"
	"zakatku-backend/internal/infra"
	"zakatku-backend/internal/middleware"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg *infra.Config, app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(app.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/v1/healthz", app.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)).Post("/login", app.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/v1/donations", func(r chi.Router) {
			r.Post("/", app.DonationsCreate)
			r.Get("/", app.DonationsList)
			r.Put("/{id}", app.DonationsUpdate)
			r.Delete("/{id}", app.DonationsDelete)
			r.Post("/{id}/lock", app.DonationsLock)
			r.Post("/lock-today", app.DonationsLockToday)
		})

		r.Route("/v1/donors", func(r chi.Router) {
			r.Get("/", app.DonorsList)
			r.Put("/{id}", app.DonorsUpdate)
			r.Delete("/{id}", app.DonorsDelete)
			r.Post("/import", app.DonorsImport)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.UserRoleAdmin))

			r.Route("/v1/users", func(r chi.Router) {
				r.Get("/", app.UsersList)
				r.Post("/", app.UsersCreate)
				r.Put("/{id}", app.UsersUpdate)
				r.Delete("/{id}", app.UsersDelete)
				r.Post("/{id}/deactivate", app.UsersDeactivate)
				r.Post("/{id}/activate", app.UsersActivate)
				r.Put("/{id}/password", app.UsersPassword)
			})

			r.Get("/v1/audit-logs", app.AuditLogsList)
			r.Get("/v1/reports/collectors", app.ReportsCollectors)
		})
	})

	return r
}
