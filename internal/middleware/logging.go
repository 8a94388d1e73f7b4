// Package middleware holds the HTTP middleware wrapped around the router.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches log to each request context (read it back with
// hlog.FromRequest) and writes one access line per request. It expects
// chi's RequestID middleware to run first.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(accessLine)(next)
		h = requestIDField(h)
		h = hlog.RemoteAddrHandler("ip")(h)
		return hlog.NewHandler(log)(h)
	}
}

func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLine(r *http.Request, status, size int, duration time.Duration) {
	log := hlog.FromRequest(r)
	var ev *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		ev = log.Error()
	case status >= http.StatusBadRequest:
		ev = log.Warn()
	default:
		ev = log.Info()
	}
	ev.Str("method", r.Method).
		Str("url", r.URL.RequestURI()).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
