package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/vilain-Petit-Canard/API-Films/internal/errs"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the document store answers.
//
// @Summary Health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errs.HTTPError
// @Router /health [get]
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
			writeError(w, r, errs.NewServiceUnavailableError("store unavailable"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
