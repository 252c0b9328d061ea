package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"consumer_trends/internal/adapters/observability"
)

// Observe records one latency sample and one log line per request. Record
// routes also log which source, key or category was asked for. Server errors
// log at Error.
func Observe(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route, dur := routeOf(r), time.Since(start)
			observability.ObserveHTTP(route, r.Method, status, dur)

			ev := l.Info()
			if status >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev = ev.Str("request_id", chimw.GetReqID(r.Context())).
				Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", dur).
				Str("remote", r.RemoteAddr)
			for _, f := range recordFields(r) {
				ev = ev.Str(f[0], f[1])
			}
			ev.Msg("http_request")
		})
	}
}

// recordFields picks the lookup parameters of the records API, from the path
// for single lookups and the query string for listings.
func recordFields(r *http.Request) [][2]string {
	var out [][2]string
	for _, p := range []string{"source", "key"} {
		if v := chi.URLParam(r, p); v != "" {
			out = append(out, [2]string{p, v})
		}
	}
	if len(out) > 0 {
		return out
	}
	q := r.URL.Query()
	for _, p := range []string{"source", "category", "limit"} {
		if v := q.Get(p); v != "" {
			out = append(out, [2]string{p, v})
		}
	}
	return out
}

// routeOf returns the matched chi pattern, or "unmatched".
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
