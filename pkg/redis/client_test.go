package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestGetBytesReportsMissWithoutError(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	data, found, err := client.GetBytes(ctx, "basket:cache:alice")
	if err != nil {
		t.Fatalf("miss should not be an error: %v", err)
	}
	if found || data != nil {
		t.Fatalf("expected miss, got found=%v data=%q", found, data)
	}

	if err := client.Set(ctx, "basket:cache:alice", `{"user_id":"alice"}`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	data, found, err = client.GetBytes(ctx, "basket:cache:alice")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found {
		t.Fatalf("expected hit after set")
	}
	if string(data) != `{"user_id":"alice"}` {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestDelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Del(ctx, "basket:cache:missing"); err != nil {
		t.Fatalf("deleting an absent key should not fail: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.BasketCacheKey("alice"); got != "basket:cache:alice" {
		t.Fatalf("unexpected cache key %s", got)
	}
	if got := client.BasketStoreKey("alice"); got != "basket:store:alice" {
		t.Fatalf("unexpected store key %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
