package redis

import (
	"testing"

	"github.com/shopdeskapp/shopdesk-backend/pkg/config"
)

func TestOptionsFromConfigRequiresURL(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when url is empty")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2, got %d", opts.DB)
	}
}

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("orders", "abc"); got != "sd:idempotency:orders:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.LockKey("low_stock"); got != "sd:lock:low_stock" {
		t.Fatalf("unexpected lock key %q", got)
	}
}
