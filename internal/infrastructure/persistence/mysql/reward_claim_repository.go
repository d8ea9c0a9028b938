package mysql

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/reward"
)

// RewardClaimRepository MySQL実装の広告報酬リミッター
// Redisが無効な環境でのフォールバックとして使う
type RewardClaimRepository struct {
	db       *DB
	interval time.Duration
	tracer   trace.Tracer
}

// NewRewardClaimRepository 新しいRewardClaimRepositoryを作成
func NewRewardClaimRepository(db *DB, interval time.Duration) *RewardClaimRepository {
	return &RewardClaimRepository{
		db:       db,
		interval: interval,
		tracer:   otel.Tracer("reward-claim-repository"),
	}
}

// Claim 制限期間内の初回だけ受け取りを記録する
// user_idの一意制約と条件付き更新で期間内の二重受け取りを排除する
func (r *RewardClaimRepository) Claim(ctx context.Context, userID string) error {
	ctx, span := r.tracer.Start(ctx, "RewardClaimRepository.Claim")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "reward_claims"),
	)

	now := time.Now()
	cutoff := now.Add(-r.interval)

	// 新規行は挿入、期間を過ぎた既存行は更新、期間内の既存行は無変更（rows affected = 0）
	query := `
		INSERT INTO reward_claims (user_id, claimed_at)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE
			claimed_at = IF(claimed_at <= ?, VALUES(claimed_at), claimed_at)
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, userID, now, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to claim reward: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "already claimed")
		return reward.ErrAlreadyClaimed
	}

	span.SetStatus(otelcodes.Ok, "reward claimed")
	return nil
}
