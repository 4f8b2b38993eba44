package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestKeyOrderInsensitive(t *testing.T) {
	a := Key([]string{"egg", "garlic", "onion"}, 10, "default")
	b := Key([]string{"onion", "egg", "garlic"}, 10, "default")
	if a != b {
		t.Error("key should not depend on ingredient order")
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key([]string{"egg"}, 10, "default")
	if Key([]string{"egg", "garlic"}, 10, "default") == base {
		t.Error("different tokens should produce different keys")
	}
	if Key([]string{"egg"}, 5, "default") == base {
		t.Error("different limit should produce different keys")
	}
	if Key([]string{"egg"}, 10, "strict") == base {
		t.Error("different profile should produce different keys")
	}
}

func newTestManager(maxSize int, ttl time.Duration) *Manager {
	return NewManager(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	})
}

func TestManagerSetGet(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); err == nil {
		t.Error("expected miss for unknown key")
	}

	if err := m.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v1" {
		t.Errorf("Get = %q, want v1", got)
	}
}

func TestManagerExpiry(t *testing.T) {
	m := newTestManager(10, 10*time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := m.Get(ctx, "k1"); err == nil {
		t.Error("expected miss after TTL expiry")
	}
}

func TestManagerEvictsLRUWhenFull(t *testing.T) {
	m := newTestManager(2, time.Minute)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "k2", "v2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	// k1 被訪問過，k2 成為 LRU 淘汰對象
	if _, err := m.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := m.Set(ctx, "k3", "v3"); err != nil {
		t.Fatalf("Set after eviction failed: %v", err)
	}

	if _, err := m.Get(ctx, "k1"); err != nil {
		t.Error("k1 should survive eviction")
	}
	if _, err := m.Get(ctx, "k2"); err == nil {
		t.Error("k2 should have been evicted")
	}
}

func TestNewDisabled(t *testing.T) {
	store, err := New(&config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if store != nil {
		t.Error("disabled cache should return nil store")
	}
}
