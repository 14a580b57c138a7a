package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
)

// Logger returns a middleware that attaches a request-scoped logrus entry to the request
// context and logs every request when it completes. Place it after chi's RequestID.
func Logger(base *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Strip CR/LF from user-supplied values to prevent log injection.
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
			entry := base.WithFields(logrus.Fields{
				"request_id": chimiddleware.GetReqID(r.Context()),
				"method":     sanitize(r.Method),
				"path":       sanitize(r.URL.Path),
			})

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(logging.WithLogger(r.Context(), entry)))

			entry = entry.WithFields(logrus.Fields{
				"status":   wrapped.statusCode,
				"duration": time.Since(start),
			})
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				entry.Error("request completed")
			case wrapped.statusCode >= http.StatusBadRequest:
				entry.Warn("request completed")
			default:
				entry.Info("request completed")
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
