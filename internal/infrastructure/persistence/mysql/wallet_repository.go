package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/wallet"
)

// WalletRepository MySQL実装のWalletRepository
type WalletRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewWalletRepository 新しいWalletRepositoryを作成
func NewWalletRepository(db *DB) *WalletRepository {
	return &WalletRepository{
		db:     db,
		tracer: otel.Tracer("wallet-repository"),
	}
}

// FindByUserIDAndType ユーザーIDと通貨タイプでウォレットを取得
func (r *WalletRepository) FindByUserIDAndType(ctx context.Context, userID string, currencyType wallet.CurrencyType) (*wallet.Wallet, error) {
	ctx, span := r.tracer.Start(ctx, "WalletRepository.FindByUserIDAndType")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.currency_type", currencyType.String()),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "wallets"),
	)

	query := `
		SELECT user_id, currency_type, balance, version
		FROM wallets
		WHERE user_id = ? AND currency_type = ?
	`

	var dbUserID string
	var dbCurrencyType string
	var balance int64
	var version int

	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID, currencyType.String()).Scan(
		&dbUserID,
		&dbCurrencyType,
		&balance,
		&version,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "wallet not found")
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("db.balance", balance),
		attribute.Int("db.version", version),
	)
	span.SetStatus(otelcodes.Ok, "wallet found")

	ct, err := wallet.NewCurrencyType(dbCurrencyType)
	if err != nil {
		return nil, fmt.Errorf("invalid currency type: %w", err)
	}

	w, err := wallet.NewWallet(dbUserID, ct, balance, version)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct wallet entity: %w", err)
	}

	return w, nil
}

// Save ウォレットを保存（更新、楽観的ロック対応）
// エンティティはCredit/Debitでバージョンを進めているため、
// 更新条件には変更前のバージョンを使う
func (r *WalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	ctx, span := r.tracer.Start(ctx, "WalletRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", w.UserID()),
		attribute.String("db.currency_type", w.CurrencyType().String()),
		attribute.Int64("db.balance", w.Balance()),
		attribute.Int("db.version", w.Version()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "wallets"),
	)

	query := `
		UPDATE wallets
		SET balance = ?, version = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND currency_type = ? AND version = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		w.Balance(),
		w.Version(),
		w.UserID(),
		w.CurrencyType().String(),
		w.Version()-1,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		span.RecordError(wallet.ErrVersionConflict)
		span.SetStatus(otelcodes.Error, wallet.ErrVersionConflict.Error())
		return wallet.ErrVersionConflict
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
	span.SetStatus(otelcodes.Ok, "wallet saved")
	return nil
}

// Create 新しいウォレットを作成
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	ctx, span := r.tracer.Start(ctx, "WalletRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", w.UserID()),
		attribute.String("db.currency_type", w.CurrencyType().String()),
		attribute.Int64("db.balance", w.Balance()),
		attribute.Int("db.version", w.Version()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "wallets"),
	)

	// ユーザーが存在するか確認（存在しない場合は作成）
	if err := r.ensureUserExists(ctx, w.UserID()); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to ensure user exists: %w", err)
	}

	query := `
		INSERT INTO wallets (user_id, currency_type, balance, version)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		w.UserID(),
		w.CurrencyType().String(),
		w.Balance(),
		w.Version(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "wallet created")
	return nil
}

// ensureUserExists ユーザーが存在することを確認（存在しない場合は作成）
func (r *WalletRepository) ensureUserExists(ctx context.Context, userID string) error {
	query := `
		INSERT INTO users (user_id)
		VALUES (?)
		ON DUPLICATE KEY UPDATE updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure user exists: %w", err)
	}

	return nil
}
