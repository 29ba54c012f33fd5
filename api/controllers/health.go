package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kiranapos/backend/api/responses"
	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/logger"
	pkgredis "github.com/kiranapos/backend/pkg/redis"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-KiranaPOS-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports degraded when the database or redis is unreachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, db dbPinger, cache pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("X-KiranaPOS-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed")
			}
		}

		responses.WriteSuccessStatus(w, code, map[string]any{"status": status, "checks": checks})
	}
}
