package guard

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentKey(t *testing.T) {
	id := uuid.MustParse("6f1c1c56-2b8a-4c55-9d6c-3a0a3f7f7b11")
	day := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	a := PaymentKey(id, decimal.RequireFromString("30"), day)
	b := PaymentKey(id, decimal.RequireFromString("30.00"), day.Add(2*time.Hour))

	assert.Equal(t, "6f1c1c56-2b8a-4c55-9d6c-3a0a3f7f7b11:30.00:2024-03-04", a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, PaymentKey(id, decimal.RequireFromString("30.01"), day))
}

func TestRedisGuard_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewRedisGuard(client, time.Second).Claim(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisGuard_Claim(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	ctx := context.Background()
	g := NewRedisGuard(client, 2*time.Second)
	key := "test:" + uuid.NewString()

	ok, err := g.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, key))
	ok, err = g.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}
