package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger tags each request with an X-Request-ID, logs its outcome and
// converts panics into the generic 500 response.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			entry := log.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			defer func() {
				if p := recover(); p != nil {
					entry.WithField("panic", p).Errorf("recovered from panic\n%s", debug.Stack())
					if !rec.wrote {
						writeError(rec, http.StatusInternalServerError, "Server Error")
					}
				}
				fields := logrus.Fields{
					"status":   rec.status,
					"duration": time.Since(start).String(),
				}
				if rec.status >= http.StatusInternalServerError {
					entry.WithFields(fields).Error("request failed")
				} else {
					entry.WithFields(fields).Info("request handled")
				}
			}()

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}
