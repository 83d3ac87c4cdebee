package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckAllHealthy(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("database", func(ctx context.Context) error { return nil })
	r.Register("provider", func(ctx context.Context) error { return nil })

	checks, ok := r.CheckAll(context.Background())
	if !ok {
		t.Error("all checks pass, registry should report healthy")
	}
	if len(checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(checks))
	}
}

func TestCheckAllFailure(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("database", func(ctx context.Context) error { return errors.New("connection refused") })

	checks, ok := r.CheckAll(context.Background())
	if ok {
		t.Error("failing check should mark registry unhealthy")
	}
	if checks[0].Healthy || checks[0].Error != "connection refused" {
		t.Errorf("unexpected check result: %+v", checks[0])
	}
}

func TestCheckTimeout(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	r.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	_, ok := r.CheckAll(context.Background())
	if ok {
		t.Error("check exceeding timeout should fail")
	}
}

func TestEmptyRegistryHealthy(t *testing.T) {
	r := NewRegistry(time.Second)
	checks, ok := r.CheckAll(context.Background())
	if !ok || len(checks) != 0 {
		t.Error("empty registry should be healthy with no checks")
	}
}
