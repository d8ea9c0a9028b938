package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/reward"
)

// RedisRewardLimiter Redisによるデイリーリワード受取制限
// SET NX EX でキーを設定し、設定できなければ受取済みとみなす。
// キーはTTLで自動失効するため掃除処理は不要。
type RedisRewardLimiter struct {
	client   *redis.Client
	interval time.Duration
	tracer   trace.Tracer
}

// NewRedisRewardLimiter RedisRewardLimiterのコンストラクタ
func NewRedisRewardLimiter(client *redis.Client, interval time.Duration) *RedisRewardLimiter {
	return &RedisRewardLimiter{
		client:   client,
		interval: interval,
		tracer:   otel.Tracer("cache.reward_limiter"),
	}
}

// Claim リワード受取枠を確保する
// 受取間隔内に受取済みの場合は reward.ErrAlreadyClaimed を返す
func (l *RedisRewardLimiter) Claim(ctx context.Context, userID string) error {
	ctx, span := l.tracer.Start(ctx, "RedisRewardLimiter.Claim")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	key := rewardClaimKey(userID)
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.interval).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to set reward claim key")
		return fmt.Errorf("failed to set reward claim key: %w", err)
	}
	if !ok {
		span.SetStatus(otelcodes.Ok, "already claimed")
		return reward.ErrAlreadyClaimed
	}

	span.SetStatus(otelcodes.Ok, "claimed")
	return nil
}

func rewardClaimKey(userID string) string {
	return fmt.Sprintf("reward:claim:%s", userID)
}
