package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okPing(context.Context) error { return nil }

func failingPing(context.Context) error { return errors.New("connection refused") }

func TestNew(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	assert.NotNil(t, hc)
	assert.Equal(t, "1.0.0", hc.version)
	assert.NotNil(t, hc.checkers)
	assert.Equal(t, time.Second, hc.cacheTTL)
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_CombinesStatuses(t *testing.T) {
	tests := []struct {
		name     string
		store    func(context.Context) error
		cache    func(context.Context) error
		expected Status
	}{
		{"AllHealthy", okPing, okPing, StatusHealthy},
		{"OptionalFailing", okPing, failingPing, StatusDegraded},
		{"CriticalFailing", failingPing, okPing, StatusUnhealthy},
		{"BothFailing", failingPing, failingPing, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			hc.Register("store", NewPingChecker(tt.store, true))
			hc.Register("cache", NewPingChecker(tt.cache, false))

			response := hc.Check(context.Background())

			assert.Equal(t, tt.expected, response.Status)
			require.Len(t, response.Checks, 2)
			assert.Equal(t, "cache", response.Checks[0].Name)
			assert.Equal(t, "store", response.Checks[1].Name)
		})
	}
}

func TestPingChecker_ReportsErrorMessage(t *testing.T) {
	check := NewPingChecker(failingPing, true).WithMetadata(map[string]string{"driver": "postgres"}).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "connection refused", check.Message)
	assert.Equal(t, map[string]string{"driver": "postgres"}, check.Metadata)
	assert.False(t, check.LastChecked.IsZero())
}

func TestHealthCheck_Check_UsesCache(t *testing.T) {
	var calls int32
	hc := New("1.0.0", zap.NewNop())
	hc.SetCacheTTL(time.Minute)
	hc.Register("counter", NewCustomChecker(func(context.Context) (Status, string, interface{}) {
		atomic.AddInt32(&calls, 1)
		return StatusHealthy, "", nil
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHealthCheck_Check_CacheDisabled(t *testing.T) {
	var calls int32
	hc := New("1.0.0", zap.NewNop())
	hc.SetCacheTTL(0)
	hc.Register("counter", NewCustomChecker(func(context.Context) (Status, string, interface{}) {
		atomic.AddInt32(&calls, 1)
		return StatusHealthy, "", nil
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHealthCheck_Handler(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		hc := New("1.0.0", zap.NewNop())
		hc.Register("store", NewPingChecker(okPing, true))
		rec := httptest.NewRecorder()

		hc.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Contains(t, body, "total_duration_ms")
	})

	t.Run("Degraded_ShouldStillAnswerOK", func(t *testing.T) {
		hc := New("1.0.0", zap.NewNop())
		hc.Register("cache", NewPingChecker(failingPing, false))
		rec := httptest.NewRecorder()

		hc.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"degraded"`)
	})

	t.Run("Unhealthy", func(t *testing.T) {
		hc := New("1.0.0", zap.NewNop())
		hc.Register("store", NewPingChecker(failingPing, true))
		rec := httptest.NewRecorder()

		hc.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealthCheck_LivenessHandler(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	rec := httptest.NewRecorder()

	hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}
