package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tavolohq/resto-trace-backend/api/controllers"
	"github.com/tavolohq/resto-trace-backend/api/middleware"
	"github.com/tavolohq/resto-trace-backend/internal/tracing"
	"github.com/tavolohq/resto-trace-backend/pkg/config"
	"github.com/tavolohq/resto-trace-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers. Health pingers
// are optional; a nil entry is skipped by the readiness check.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Tracing tracing.Service
	Tracker tracing.Tracker
	Pingers map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Service.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionSearch(deps.Tracing, logg))
			r.Post("/", controllers.TransactionStart(deps.Tracker, logg))
			r.Get("/{transactionID}", controllers.TransactionByID(deps.Tracing, logg))
			r.Post("/{transactionID}/events", controllers.TransactionUpdate(deps.Tracker, logg))
			r.Post("/{transactionID}/complete", controllers.TransactionComplete(deps.Tracker, logg))
		})
		r.Get("/events/{transactionID}", controllers.EventsByTransaction(deps.Tracing, logg))
		r.Get("/stats", controllers.TransactionStats(deps.Tracing, logg))

		r.Get("/types", controllers.TransactionTypes())
		r.Get("/origins", controllers.TransactionOrigins())
		r.Get("/event-types", controllers.TraceEventTypes())
		r.Get("/statuses", controllers.TransactionStatuses())
	})

	return r
}
