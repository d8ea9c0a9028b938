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

	"wallet-server/internal/domain/payment"
)

// MomoOrderRepository MySQL実装のMoMo注文リポジトリ
type MomoOrderRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewMomoOrderRepository 新しいMomoOrderRepositoryを作成
func NewMomoOrderRepository(db *DB) *MomoOrderRepository {
	return &MomoOrderRepository{
		db:     db,
		tracer: otel.Tracer("momo-order-repository"),
	}
}

// Create 注文を保存する
func (r *MomoOrderRepository) Create(ctx context.Context, o *payment.MomoOrder) error {
	ctx, span := r.tracer.Start(ctx, "MomoOrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", o.OrderID()),
		attribute.String("db.user_id", o.UserID()),
		attribute.Int64("db.amount", o.Amount()),
		attribute.String("db.purchase_type", o.PurchaseType().String()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "momo_orders"),
	)

	query := `
		INSERT INTO momo_orders (
			order_id, request_id, user_id, amount, purchase_type,
			coin_amount, duration_days, package_id, status,
			pay_url, deeplink, qr_code_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		o.OrderID(),
		o.RequestID(),
		o.UserID(),
		o.Amount(),
		o.PurchaseType().String(),
		o.CoinAmount(),
		o.DurationDays(),
		o.PackageID(),
		o.Status().String(),
		o.PayURL(),
		o.Deeplink(),
		o.QRCodeURL(),
		o.CreatedAt(),
		o.UpdatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create momo order: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "momo order created")
	return nil
}

// FindByOrderID 注文IDで注文を取得
func (r *MomoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.MomoOrder, error) {
	ctx, span := r.tracer.Start(ctx, "MomoOrderRepository.FindByOrderID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "momo_orders"),
	)

	query := `
		SELECT
			order_id, request_id, user_id, amount, purchase_type,
			coin_amount, duration_days, package_id, status,
			momo_trans_id, pay_url, deeplink, qr_code_url, fail_reason,
			created_at, updated_at
		FROM momo_orders
		WHERE order_id = ?
	`

	var dbOrderID, requestID, userID, purchaseType, status string
	var amount, coinAmount int64
	var durationDays int
	var packageID string
	var momoTransID, payURL, deeplink, qrCodeURL, failReason sql.NullString
	var createdAt, updatedAt time.Time

	err := r.db.conn(ctx).QueryRowContext(ctx, query, orderID).Scan(
		&dbOrderID,
		&requestID,
		&userID,
		&amount,
		&purchaseType,
		&coinAmount,
		&durationDays,
		&packageID,
		&status,
		&momoTransID,
		&payURL,
		&deeplink,
		&qrCodeURL,
		&failReason,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "momo order not found")
		return nil, payment.ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find momo order: %w", err)
	}

	pt, err := payment.NewPurchaseType(purchaseType)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase type: %w", err)
	}

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.status", status),
	)
	span.SetStatus(otelcodes.Ok, "momo order found")

	return payment.ReconstructMomoOrder(
		dbOrderID, requestID, userID,
		amount, pt, coinAmount, durationDays, packageID,
		payment.OrderStatus(status),
		momoTransID.String, payURL.String, deeplink.String, qrCodeURL.String, failReason.String,
		createdAt, updatedAt,
	), nil
}

// MarkSuccess pendingの注文だけを成功に更新する
// 条件付きUPDATEによりコールバックの再送を冪等に処理する
func (r *MomoOrderRepository) MarkSuccess(ctx context.Context, orderID, momoTransID string, updatedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "MomoOrderRepository.MarkSuccess")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.momo_trans_id", momoTransID),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "momo_orders"),
	)

	query := `
		UPDATE momo_orders
		SET status = 'success', momo_trans_id = ?, updated_at = ?
		WHERE order_id = ? AND status = 'pending'
	`

	return r.execConditional(ctx, span, query, momoTransID, updatedAt, orderID)
}

// MarkFail pendingの注文だけを失敗に更新する
func (r *MomoOrderRepository) MarkFail(ctx context.Context, orderID, reason string, updatedAt time.Time) error {
	ctx, span := r.tracer.Start(ctx, "MomoOrderRepository.MarkFail")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.fail_reason", reason),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "momo_orders"),
	)

	query := `
		UPDATE momo_orders
		SET status = 'failed', fail_reason = ?, updated_at = ?
		WHERE order_id = ? AND status = 'pending'
	`

	return r.execConditional(ctx, span, query, reason, updatedAt, orderID)
}

func (r *MomoOrderRepository) execConditional(ctx context.Context, span trace.Span, query string, args ...interface{}) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update momo order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		span.RecordError(payment.ErrOrderAlreadyFinalized)
		span.SetStatus(otelcodes.Error, payment.ErrOrderAlreadyFinalized.Error())
		return payment.ErrOrderAlreadyFinalized
	}

	span.SetStatus(otelcodes.Ok, "momo order updated")
	return nil
}
