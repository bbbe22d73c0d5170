package controllers

import (
	"net/http"

	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/filmharbor/festival-backend/pkg/db"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
	"github.com/filmharbor/festival-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Festival-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, mongo db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Festival-Env", cfg.App.Env)

		if mongo != nil {
			if err := mongo.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mongo unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
