// Package http wires the service layer to chi routes. Handlers stay thin:
// decode, call the service, encode. Authorization is declarative per route
// through the auth middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unipass/internal/platform/middleware"
	"unipass/pkg/requestcontext"
)

// HealthCheck probes one dependency. A non-nil error marks the process
// unhealthy.
type HealthCheck func(ctx context.Context) error

// Deps collects everything the router needs.
type Deps struct {
	Exeats    ExeatService
	Gate      GateService
	Penalties PenaltyService
	QR        QRRenderer
	Verifier  middleware.TokenVerifier
	Logger    *slog.Logger
	Health    []HealthCheck
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	exeats := &exeatHandler{service: deps.Exeats, qr: deps.QR, logger: deps.Logger}
	gates := &gateHandler{service: deps.Gate, logger: deps.Logger}
	penalties := &penaltyHandler{service: deps.Penalties, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))

		r.Route("/exeats", func(r chi.Router) {
			r.With(middleware.RequireRole(requestcontext.RoleStudent)).
				Post("/", exeats.create)
			r.With(middleware.RequireRole(requestcontext.RoleStudent)).
				Get("/", exeats.listOwn)

			r.Route("/{exeatID}", func(r chi.Router) {
				r.Get("/", exeats.get)
				r.With(middleware.RequireRole(requestcontext.RoleParent)).
					Post("/parent-decision", exeats.parentDecision)
				r.With(middleware.RequireRole(requestcontext.RoleDean)).
					Post("/dean-decision", exeats.deanDecision)
				r.With(middleware.RequireRole(requestcontext.RoleStudent, requestcontext.RoleSecurity)).
					Get("/credential.png", exeats.credentialPNG)
				r.With(middleware.RequireRole(requestcontext.RoleSecurity, requestcontext.RoleDean, requestcontext.RoleAdmin)).
					Get("/activities", gates.listActivities)
				r.With(middleware.RequireRole(requestcontext.RoleDean, requestcontext.RoleAdmin)).
					Get("/penalties", penalties.listByExeat)
			})
		})

		r.With(middleware.RequireRole(requestcontext.RoleSecurity)).
			Post("/gate/scan", gates.scan)

		r.Route("/penalties/{penaltyID}", func(r chi.Router) {
			r.With(middleware.RequireRole(requestcontext.RoleDean, requestcontext.RoleAdmin)).
				Get("/", penalties.get)
			r.With(middleware.RequireRole(requestcontext.RoleAdmin)).
				Post("/paid", penalties.markPaid)
		})
		r.With(middleware.RequireRole(requestcontext.RoleDean, requestcontext.RoleAdmin)).
			Get("/students/{studentID}/penalties", penalties.listByStudent)
	})

	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
