package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/user"
)

// UserProfileRepository MySQL実装のユーザープロフィールリポジトリ
type UserProfileRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewUserProfileRepository 新しいUserProfileRepositoryを作成
func NewUserProfileRepository(db *DB) *UserProfileRepository {
	return &UserProfileRepository{
		db:     db,
		tracer: otel.Tracer("user-profile-repository"),
	}
}

// FindByUserID ユーザーIDでプロフィールを取得
func (r *UserProfileRepository) FindByUserID(ctx context.Context, userID string) (*user.Profile, error) {
	ctx, span := r.tracer.Start(ctx, "UserProfileRepository.FindByUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "user_profiles"),
	)

	query := `
		SELECT
			user_id, is_pro, pro_expires_at, boosted_until, vip_badge,
			banned, ban_reason, banned_by, banned_at,
			messages_sent_today, last_message_at, updated_at
		FROM user_profiles
		WHERE user_id = ?
	`

	var dbUserID string
	var isPro, vipBadge, banned bool
	var proExpiresAt, boostedUntil, bannedAt, lastMessageAt sql.NullTime
	var banReason, bannedBy sql.NullString
	var messagesSentToday int
	var updatedAt time.Time

	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(
		&dbUserID,
		&isPro,
		&proExpiresAt,
		&boostedUntil,
		&vipBadge,
		&banned,
		&banReason,
		&bannedBy,
		&bannedAt,
		&messagesSentToday,
		&lastMessageAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "profile not found")
		return nil, user.ErrProfileNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "profile found")

	var proExpiresAtPtr, boostedUntilPtr, bannedAtPtr, lastMessageAtPtr *time.Time
	if proExpiresAt.Valid {
		proExpiresAtPtr = &proExpiresAt.Time
	}
	if boostedUntil.Valid {
		boostedUntilPtr = &boostedUntil.Time
	}
	if bannedAt.Valid {
		bannedAtPtr = &bannedAt.Time
	}
	if lastMessageAt.Valid {
		lastMessageAtPtr = &lastMessageAt.Time
	}

	return user.ReconstructProfile(
		dbUserID,
		isPro,
		proExpiresAtPtr,
		boostedUntilPtr,
		vipBadge,
		banned,
		banReason.String,
		bannedBy.String,
		bannedAtPtr,
		messagesSentToday,
		lastMessageAtPtr,
		updatedAt,
	), nil
}

// Save プロフィールを保存する（存在しなければ作成する）
func (r *UserProfileRepository) Save(ctx context.Context, p *user.Profile) error {
	ctx, span := r.tracer.Start(ctx, "UserProfileRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", p.UserID()),
		attribute.Bool("db.banned", p.Banned()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "user_profiles"),
	)

	query := `
		INSERT INTO user_profiles (
			user_id, is_pro, pro_expires_at, boosted_until, vip_badge,
			banned, ban_reason, banned_by, banned_at,
			messages_sent_today, last_message_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			is_pro = VALUES(is_pro),
			pro_expires_at = VALUES(pro_expires_at),
			boosted_until = VALUES(boosted_until),
			vip_badge = VALUES(vip_badge),
			banned = VALUES(banned),
			ban_reason = VALUES(ban_reason),
			banned_by = VALUES(banned_by),
			banned_at = VALUES(banned_at),
			messages_sent_today = VALUES(messages_sent_today),
			last_message_at = VALUES(last_message_at),
			updated_at = VALUES(updated_at)
	`

	var proExpiresAt, boostedUntil, bannedAt, lastMessageAt interface{}
	if v := p.ProExpiresAt(); v != nil {
		proExpiresAt = *v
	}
	if v := p.BoostedUntil(); v != nil {
		boostedUntil = *v
	}
	if v := p.BannedAt(); v != nil {
		bannedAt = *v
	}
	if v := p.LastMessageAt(); v != nil {
		lastMessageAt = *v
	}

	// Profileの読み取りメソッドは期限切れを加味するため、保存はフラグの生値で行う
	isPro := p.ProExpiresAt() != nil && p.ProExpiresAt().After(time.Now())

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.UserID(),
		isPro,
		proExpiresAt,
		boostedUntil,
		p.VipBadge(),
		p.Banned(),
		p.BanReason(),
		p.BannedBy(),
		bannedAt,
		p.MessagesSentToday(time.Now()),
		lastMessageAt,
		p.UpdatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save user profile: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "profile saved")
	return nil
}

// ListUserIDs ユーザーIDの一覧を最大limit件取得する（統計サンプリング用）
func (r *UserProfileRepository) ListUserIDs(ctx context.Context, limit int) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "UserProfileRepository.ListUserIDs")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "users"),
	)

	query := `
		SELECT user_id
		FROM users
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(userIDs)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d users", len(userIDs)))
	return userIDs, nil
}

// Count 総ユーザー数を取得する
func (r *UserProfileRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "UserProfileRepository.Count")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "users"),
	)

	var count int64
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.user_count", count))
	span.SetStatus(otelcodes.Ok, "users counted")
	return count, nil
}
