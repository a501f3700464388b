package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name     string
		checks   map[string]Checker
		path     string
		wantCode int
		wantBody string
	}{
		{
			name:     "all checks pass",
			checks:   map[string]Checker{"postgres": CheckerFunc(func(context.Context) error { return nil })},
			path:     "/health",
			wantCode: http.StatusOK,
			wantBody: `"postgres":"ok"`,
		},
		{
			name: "failing check",
			checks: map[string]Checker{
				"postgres": CheckerFunc(func(context.Context) error { return nil }),
				"redis":    CheckerFunc(func(context.Context) error { return errors.New("connection refused") }),
			},
			path:     "/health",
			wantCode: http.StatusServiceUnavailable,
			wantBody: `"redis":"connection refused"`,
		},
		{
			name:     "other paths fall through",
			path:     "/metrics",
			wantCode: http.StatusTeapot,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheck{Checks: tc.checks}.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}
