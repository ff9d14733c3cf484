package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/taskly/taskly-api/internal/core/ports"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ReadinessOK(t *testing.T) {
	h := NewHealthHandler(map[string]ports.Pinger{
		"store": pingFunc(func(context.Context) error { return nil }),
		"redis": nil,
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "", "")

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if _, ok := resp.Dependencies["redis"]; ok {
		t.Fatalf("nil dependency must be skipped")
	}
}

func TestHealthHandler_ReadinessDegraded(t *testing.T) {
	h := NewHealthHandler(map[string]ports.Pinger{
		"store": pingFunc(func(context.Context) error { return nil }),
		"mongo": pingFunc(func(context.Context) error { return errors.New("no reachable servers") }),
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "", "")

	_ = h.Readiness(c)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "degraded" || resp.Dependencies["mongo"].Status != "unhealthy" || resp.Dependencies["store"].Status != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "", "")
	if err := NewHealthHandler(nil).Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (err %v)", rec.Code, err)
	}
}
