package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
)

var logger = logging.For("http")

// RequestLog logs one line per request whose status is at least
// skipBelow. A threshold of 0 logs everything.
func RequestLog(skipBelow int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < skipBelow {
				return
			}

			lvl := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				lvl = slog.LevelError
			case status >= http.StatusBadRequest:
				lvl = slog.LevelWarn
			}
			logger.Log(r.Context(), lvl, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}
