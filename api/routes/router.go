package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcplibrary/notices-backend/api/controllers"
	"github.com/dcplibrary/notices-backend/api/middleware"
	"github.com/dcplibrary/notices-backend/internal/aggregation"
	"github.com/dcplibrary/notices-backend/internal/lifecycle"
	"github.com/dcplibrary/notices-backend/pkg/config"
	"github.com/dcplibrary/notices-backend/pkg/db"
	"github.com/dcplibrary/notices-backend/pkg/logger"
	"github.com/dcplibrary/notices-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	lifecycleService lifecycle.Service,
	aggregationService aggregation.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/notices", func(r chi.Router) {
		r.Route("/verify", func(r chi.Router) {
			r.Get("/{noticeId}", controllers.VerifyNotice(lifecycleService, logg))
			r.Get("/patron/{barcode}", controllers.VerifyPatron(lifecycleService, logg))
		})

		r.Get("/mismatches", controllers.Mismatches(lifecycleService, logg))
		r.Route("/failures", func(r chi.Router) {
			r.Get("/by-reason", controllers.FailuresByReason(lifecycleService, logg))
			r.Get("/by-type", controllers.FailuresByType(lifecycleService, logg))
		})
		r.Get("/troubleshooting-summary", controllers.Troubleshooting(lifecycleService, logg))

		r.Post("/aggregate", controllers.Aggregate(aggregationService, logg))
		r.Get("/summaries", controllers.ListSummaries(aggregationService, logg))

		r.Get("/export/{report}", controllers.Export(lifecycleService, aggregationService, cfg.Export.Delimiter, logg))
	})

	return r
}
