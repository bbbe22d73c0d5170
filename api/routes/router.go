package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmharbor/festival-backend/api/controllers"
	"github.com/filmharbor/festival-backend/api/middleware"
	"github.com/filmharbor/festival-backend/internal/auth"
	"github.com/filmharbor/festival-backend/internal/years"
	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/db"
	"github.com/filmharbor/festival-backend/pkg/logger"
	"github.com/filmharbor/festival-backend/pkg/metrics"
	"github.com/filmharbor/festival-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	mongoPinger db.Pinger,
	redisClient *redis.Client,
	uploader controllers.Uploader,
	authService auth.Service,
	yearService years.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	gate := middleware.AdminGate(cfg.JWT, cfg.Admin, authService, logg)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, mongoPinger, redisClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, cfg.Admin, logg))
		r.With(gate).Get("/me", controllers.AuthMe(logg))
	})

	r.Route("/api/v1/years", func(r chi.Router) {
		r.Get("/", controllers.ListYears(yearService, logg))
		r.Get("/{year}", controllers.GetYear(yearService, logg))

		r.Group(func(r chi.Router) {
			r.Use(gate)

			r.Post("/", controllers.CreateYear(yearService, logg))
			r.Delete("/reset", controllers.ResetYears(yearService, logg))

			r.Route("/{year}", func(r chi.Router) {
				r.Put("/video", controllers.SetVideo(yearService, uploader, logg))

				r.Post("/photos", controllers.AddPhotos(yearService, uploader, logg))
				r.Delete("/photos/*", controllers.DeletePhoto(yearService, logg))

				r.Put("/awards", controllers.ReplaceAwards(yearService, logg))
				r.Post("/awards/slot", controllers.UpsertAwardSlot(yearService, logg))
				r.Delete("/awards/{category}/{role}/photo", controllers.DeleteAwardSlotPhoto(yearService, logg))
				r.Delete("/awards/{category}", controllers.DeleteAwardCategory(yearService, logg))

				r.Post("/partners", controllers.AddPartner(yearService, uploader, logg))
				r.Delete("/partners/*", controllers.DeletePartner(yearService, logg))
			})
		})
	})

	return r
}
