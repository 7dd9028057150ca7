package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.Set(ctx, "settings", `{"selectedCounty":"Kisumu"}`, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := m.Get(ctx, "settings")
	if err != nil || v != `{"selectedCounty":"Kisumu"}` {
		t.Fatalf("unexpected value %q err=%v", v, err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", "v", time.Minute)
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("expected live key: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}
