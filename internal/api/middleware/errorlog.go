package middleware

import (
	"context"
	"net/http"
)

// ErrorRecorder persists server-side request failures for the admin error log.
// *services.ActivityService satisfies it.
type ErrorRecorder interface {
	RecordError(ctx context.Context, level, message, method, path string, statusCode int)
}

// ErrorLogMiddleware records requests that end in a 5xx status so they show
// up in the admin error log.
type ErrorLogMiddleware struct {
	recorder ErrorRecorder
}

// NewErrorLogMiddleware creates a new error log middleware
func NewErrorLogMiddleware(recorder ErrorRecorder) *ErrorLogMiddleware {
	return &ErrorLogMiddleware{recorder: recorder}
}

// Middleware returns the error log middleware handler
func (m *ErrorLogMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode >= http.StatusInternalServerError && m.recorder != nil {
			m.recorder.RecordError(r.Context(), "error", http.StatusText(rw.statusCode), r.Method, r.URL.Path, rw.statusCode)
		}
	})
}
