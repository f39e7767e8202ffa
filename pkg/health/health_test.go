package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	endpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestHealth_ReadyGate(t *testing.T) {
	h := New()

	assert.False(t, h.IsReady())
	rec := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "service is not ready")

	h.SetReady(true)
	assert.True(t, h.IsReady())
	rec = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	// Shutdown drain flips it back.
	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestHealth_LivenessDefaultsHealthy(t *testing.T) {
	h := New()
	h.AddLivenessCheck("noop", time.Second, func(context.Context) error { return nil })

	rec := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_FailingCheckFlipsAfterThreshold(t *testing.T) {
	c := newCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	ctx := context.Background()

	// Below the failure threshold the check stays healthy.
	c.run(ctx)
	c.run(ctx)
	assert.True(t, c.healthy.Load())

	c.run(ctx)
	assert.False(t, c.healthy.Load())
}

func TestHealth_RecoveryFlipsBack(t *testing.T) {
	fail := true
	c := newCheck("db", time.Second, func(context.Context) error {
		if fail {
			return errors.New("connection refused")
		}
		return nil
	})

	ctx := context.Background()
	for range defaultFailureThreshold {
		c.run(ctx)
	}
	require.False(t, c.healthy.Load())

	fail = false
	c.run(ctx)
	assert.True(t, c.healthy.Load())
}

func TestHealth_ReadyEndpointReportsFailingCheck(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("disk", time.Second, func(context.Context) error {
		return errors.New("disk full")
	})

	// Drive the probe past its failure threshold synchronously.
	h.mu.RLock()
	c := h.readiness[0]
	h.mu.RUnlock()
	for range defaultFailureThreshold {
		c.run(context.Background())
	}

	rec := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")
	assert.False(t, h.IsReady())
}

func TestHealth_StartAndStop(t *testing.T) {
	h := New()
	probed := make(chan struct{}, 1)
	h.AddLivenessCheck("tick", time.Second, func(context.Context) error {
		select {
		case probed <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-probed:
	case <-time.After(time.Second):
		t.Fatal("check was never probed")
	}
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	require.Error(t, GoroutineCountCheck(0)(context.Background()))
}
