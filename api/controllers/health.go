package controllers

import (
	"net/http"

	"github.com/appakade/pos-backend/api/responses"
	"github.com/appakade/pos-backend/pkg/config"
	"github.com/appakade/pos-backend/pkg/db"
	pkgerrors "github.com/appakade/pos-backend/pkg/errors"
	"github.com/appakade/pos-backend/pkg/logger"
	pkgredis "github.com/appakade/pos-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-POS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers. Redis is probed
// when configured but a failure degrades the payload instead of the status;
// checkout still works without the idempotency guard.
func HealthReady(cfg *config.Config, database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-POS-Env", cfg.App.Env)

		if database == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := database.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		payload := map[string]string{"status": "ready", "database": "ok"}
		if cache != nil {
			payload["redis"] = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				payload["redis"] = "unreachable"
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "redis.unreachable")
				}
			}
		}
		responses.WriteSuccess(w, payload)
	}
}
