// Package guard rejects identical payment submissions that arrive within a
// short window, such as a double click on "pay".
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/pkg/utils"
)

const keyPrefix = "cobranca:payment:"

// SubmissionGuard claims a key for a time window.
type SubmissionGuard interface {
	// Claim reports false when the key was already claimed in the window.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees a key so that a failed submission can be retried.
	Release(ctx context.Context, key string) error
}

// RedisGuard implements SubmissionGuard with SET NX and a TTL.
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

func NewRedisGuard(client *redis.Client, window time.Duration) *RedisGuard {
	return &RedisGuard{client: client, window: window}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, time.Now().Unix(), g.window).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}

// PaymentKey identifies a submission by target, amount and payment date.
func PaymentKey(targetID uuid.UUID, amount decimal.Decimal, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s", targetID, amount.StringFixed(2), utils.DateOnly(date).Format(utils.DateLayout))
}
