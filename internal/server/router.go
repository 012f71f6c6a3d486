package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/srikanth112236/pg-application-sub004/internal/config"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/handler"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware. Read endpoints are open to
// every staff role; anything that mutates occupancy, lifecycle or payments
// requires admin or superadmin.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	home handler.HomeHandler,
	docs handler.DocsHandler,
	residents handler.ResidentHandler,
	rooms handler.RoomHandler,
	allocation handler.AllocationHandler,
	vacation handler.VacationHandler,
	payments handler.PaymentHandler,
	activity handler.ActivityLogHandler,
	dashboard handler.DashboardHandler,
	export handler.ExportHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	// QR self-registration is the one unauthenticated write; keep it on a
	// tight per-IP budget.
	r.Group(func(pub chi.Router) {
		pub.Use(httprate.LimitByIP(10, 1*time.Minute))
		residents.RegisterPublicRoutes(pub)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		// read surface (support/admin/superadmin)
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleSuperadmin, domain.RoleAdmin, domain.RoleSupport))
			residents.RegisterRoutes(sr)
			rooms.RegisterRoutes(sr)
			allocation.RegisterRoutes(sr)
			vacation.RegisterRoutes(sr)
			payments.RegisterRoutes(sr)
			activity.RegisterRoutes(sr)
			dashboard.RegisterRoutes(sr)
		})
		// mutating surface (admin/superadmin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleSuperadmin, domain.RoleAdmin))
			residents.RegisterAdminRoutes(mr)
			rooms.RegisterAdminRoutes(mr)
			allocation.RegisterAdminRoutes(mr)
			vacation.RegisterAdminRoutes(mr)
			payments.RegisterAdminRoutes(mr)
			export.RegisterAdminRoutes(mr)
		})
		// staff management (superadmin only)
		pr.Group(func(su chi.Router) {
			su.Use(RequireRole(domain.RoleSuperadmin))
			auth.RegisterAdminRoutes(su)
		})
	})

	return r
}
