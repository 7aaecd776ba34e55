package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/chitts/storefront-backend/api/responses"
	"github.com/chitts/storefront-backend/pkg/config"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
)

const envHeader = "X-Chitts-Env"

// Pinger is the dependency health surface checked by the readiness probe.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		statuses := map[string]string{}
		ready := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "down"
				ready = false
				continue
			}
			statuses[name] = "up"
		}

		if !ready {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(statuses))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "deps": statuses})
	}
}
