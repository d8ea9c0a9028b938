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

	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/wallet"
)

// GiftReceiptRepository MySQL実装のギフトレシートリポジトリ
type GiftReceiptRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewGiftReceiptRepository 新しいGiftReceiptRepositoryを作成
func NewGiftReceiptRepository(db *DB) *GiftReceiptRepository {
	return &GiftReceiptRepository{
		db:     db,
		tracer: otel.Tracer("gift-receipt-repository"),
	}
}

const receiptColumns = `
	receipt_id, from_user_id, from_name, to_user_id, room_id,
	gift_id, gift_name, gift_price, gift_currency_type, gift_icon,
	status, redeemed, redeemed_at, redeem_value, created_at
`

// Create レシートを保存する
// ギフト内容は受領時点のスナップショットとして非正規化して持つ
func (r *GiftReceiptRepository) Create(ctx context.Context, receipt *gift.GiftReceipt) error {
	ctx, span := r.tracer.Start(ctx, "GiftReceiptRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.receipt_id", receipt.ReceiptID()),
		attribute.String("db.to_user_id", receipt.ToUserID()),
		attribute.String("db.gift_id", receipt.Gift().GiftID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "gift_receipts"),
	)

	query := `
		INSERT INTO gift_receipts (
			receipt_id, from_user_id, from_name, to_user_id, room_id,
			gift_id, gift_name, gift_price, gift_currency_type, gift_icon,
			status, redeemed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		receipt.ReceiptID(),
		receipt.FromUserID(),
		receipt.FromName(),
		receipt.ToUserID(),
		receipt.RoomID(),
		receipt.Gift().GiftID(),
		receipt.Gift().Name(),
		receipt.Gift().Price(),
		receipt.Gift().CurrencyType().String(),
		receipt.Gift().Icon(),
		receipt.Status().String(),
		receipt.CreatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create gift receipt: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "gift receipt created")
	return nil
}

// FindByID レシートIDでレシートを取得
func (r *GiftReceiptRepository) FindByID(ctx context.Context, receiptID string) (*gift.GiftReceipt, error) {
	ctx, span := r.tracer.Start(ctx, "GiftReceiptRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.receipt_id", receiptID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gift_receipts"),
	)

	query := `
		SELECT ` + receiptColumns + `
		FROM gift_receipts
		WHERE receipt_id = ?
	`

	receipt, err := r.scanReceipt(r.db.conn(ctx).QueryRowContext(ctx, query, receiptID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "receipt not found")
		return nil, gift.ErrReceiptNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "receipt found")
	return receipt, nil
}

// FindByToUserID 受信者のレシート一覧を新しい順に取得
func (r *GiftReceiptRepository) FindByToUserID(ctx context.Context, toUserID string, status *gift.ReceiptStatus, limit int) ([]*gift.GiftReceipt, error) {
	ctx, span := r.tracer.Start(ctx, "GiftReceiptRepository.FindByToUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.to_user_id", toUserID),
		attribute.Int("db.limit", limit),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gift_receipts"),
	)

	query := `
		SELECT ` + receiptColumns + `
		FROM gift_receipts
		WHERE to_user_id = ?
	`
	args := []interface{}{toUserID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, status.String())
	}
	query += `
		ORDER BY created_at DESC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query gift receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*gift.GiftReceipt
	for rows.Next() {
		receipt, err := r.scanReceipt(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		receipts = append(receipts, receipt)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate gift receipts: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(receipts)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d receipts", len(receipts)))
	return receipts, nil
}

// MarkRedeemed 未換金のレシートだけを換金済みに更新する
// 条件付きUPDATEにより同一レシートの二重換金を排除する
func (r *GiftReceiptRepository) MarkRedeemed(ctx context.Context, receiptID string, redeemValue int64, redeemedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "GiftReceiptRepository.MarkRedeemed")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.receipt_id", receiptID),
		attribute.Int64("db.redeem_value", redeemValue),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "gift_receipts"),
	)

	query := `
		UPDATE gift_receipts
		SET redeemed = 1, redeem_value = ?, redeemed_at = ?, status = 'read'
		WHERE receipt_id = ? AND redeemed = 0
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, redeemValue, redeemedAt, receiptID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to mark receipt redeemed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		span.RecordError(gift.ErrAlreadyRedeemed)
		span.SetStatus(otelcodes.Error, gift.ErrAlreadyRedeemed.Error())
		return gift.ErrAlreadyRedeemed
	}

	span.SetStatus(otelcodes.Ok, "receipt redeemed")
	return nil
}

func (r *GiftReceiptRepository) scanReceipt(row rowScanner) (*gift.GiftReceipt, error) {
	var receiptID, fromUserID, fromName, toUserID, roomID string
	var giftID, giftName, giftCurrencyType, giftIcon string
	var giftPrice int64
	var status string
	var redeemed bool
	var redeemedAt sql.NullTime
	var redeemValue sql.NullInt64
	var createdAt time.Time

	err := row.Scan(
		&receiptID,
		&fromUserID,
		&fromName,
		&toUserID,
		&roomID,
		&giftID,
		&giftName,
		&giftPrice,
		&giftCurrencyType,
		&giftIcon,
		&status,
		&redeemed,
		&redeemedAt,
		&redeemValue,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan gift receipt: %w", err)
	}

	ct, err := wallet.NewCurrencyType(giftCurrencyType)
	if err != nil {
		return nil, fmt.Errorf("invalid currency type: %w", err)
	}

	// スナップショットはカタログの現在の状態と独立なので、activeは常にtrueで復元する
	g, err := gift.NewGift(giftID, giftName, giftPrice, ct, giftIcon, true)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct gift snapshot: %w", err)
	}

	receiptStatus, err := gift.NewReceiptStatus(status)
	if err != nil {
		return nil, fmt.Errorf("invalid receipt status: %w", err)
	}

	var redeemedAtPtr *time.Time
	if redeemedAt.Valid {
		redeemedAtPtr = &redeemedAt.Time
	}
	var redeemValuePtr *int64
	if redeemValue.Valid {
		redeemValuePtr = &redeemValue.Int64
	}

	return gift.ReconstructGiftReceipt(
		receiptID, fromUserID, fromName, toUserID, roomID,
		g, receiptStatus, redeemed, redeemedAtPtr, redeemValuePtr, createdAt,
	), nil
}
