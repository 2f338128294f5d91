package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type capturingRecorder struct {
	level      string
	message    string
	method     string
	path       string
	statusCode int
	calls      int
}

func (c *capturingRecorder) RecordError(ctx context.Context, level, message, method, path string, statusCode int) {
	c.level = level
	c.message = message
	c.method = method
	c.path = path
	c.statusCode = statusCode
	c.calls++
}

func TestErrorLogMiddleware_RecordsServerErrors(t *testing.T) {
	recorder := &capturingRecorder{}
	m := NewErrorLogMiddleware(recorder)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/organizations", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, "error", recorder.level)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), recorder.message)
	assert.Equal(t, http.MethodPost, recorder.method)
	assert.Equal(t, "/api/organizations", recorder.path)
	assert.Equal(t, http.StatusInternalServerError, recorder.statusCode)
}

func TestErrorLogMiddleware_IgnoresClientErrors(t *testing.T) {
	recorder := &capturingRecorder{}
	m := NewErrorLogMiddleware(recorder)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/organizations/missing", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, 0, recorder.calls)
}
