package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisChallengeStoreRoundTrip(t *testing.T) {
	client := newTestRedis(t)
	store := NewRedisChallengeStore(client, "otp:challenge:")
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "a@b.com"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	now := time.Now().UTC()
	ch := Challenge{
		Email:        "a@b.com",
		CurrentCode:  "0042",
		PreviousCode: "9999",
		RequestCount: 2,
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(10 * time.Minute).Unix(),
	}
	if err := store.Put(ctx, ch, 10*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || got != ch {
		t.Fatalf("expected %+v, got found=%v %+v", ch, found, got)
	}
}

func TestRedisChallengeStoreKeyExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisChallengeStore(client, "otp:challenge:")
	ctx := context.Background()

	ch := Challenge{Email: "a@b.com", CurrentCode: "0042", RequestCount: 1}
	if err := store.Put(ctx, ch, 10*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, found, err := store.Get(ctx, "a@b.com"); err != nil || found {
		t.Fatalf("expected key reaped by ttl, got found=%v err=%v", found, err)
	}
}

func TestMemoryChallengeStoreOverwrite(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()

	first := Challenge{Email: "a@b.com", CurrentCode: "1111", RequestCount: 1}
	second := Challenge{Email: "a@b.com", CurrentCode: "2222", PreviousCode: "1111", RequestCount: 2}

	if err := store.Put(ctx, first, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, second, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := store.Get(ctx, "a@b.com")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got != second {
		t.Fatalf("expected latest challenge, got %+v", got)
	}
}
