package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/wallet"
)

// GiftCatalogRepository MySQL実装のギフトカタログリポジトリ
type GiftCatalogRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewGiftCatalogRepository 新しいGiftCatalogRepositoryを作成
func NewGiftCatalogRepository(db *DB) *GiftCatalogRepository {
	return &GiftCatalogRepository{
		db:     db,
		tracer: otel.Tracer("gift-catalog-repository"),
	}
}

// FindActive 有効なギフトの一覧を取得
func (r *GiftCatalogRepository) FindActive(ctx context.Context) ([]*gift.Gift, error) {
	ctx, span := r.tracer.Start(ctx, "GiftCatalogRepository.FindActive")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gift_catalog"),
	)

	query := `
		SELECT gift_id, name, price, currency_type, icon, active
		FROM gift_catalog
		WHERE active = 1
		ORDER BY price ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query gift catalog: %w", err)
	}
	defer rows.Close()

	var gifts []*gift.Gift
	for rows.Next() {
		g, err := r.scanGift(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		gifts = append(gifts, g)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate gift catalog: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(gifts)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d gifts", len(gifts)))
	return gifts, nil
}

// FindByID ギフトIDでギフトを取得
func (r *GiftCatalogRepository) FindByID(ctx context.Context, giftID string) (*gift.Gift, error) {
	ctx, span := r.tracer.Start(ctx, "GiftCatalogRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.gift_id", giftID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gift_catalog"),
	)

	query := `
		SELECT gift_id, name, price, currency_type, icon, active
		FROM gift_catalog
		WHERE gift_id = ?
	`

	g, err := r.scanGift(r.db.conn(ctx).QueryRowContext(ctx, query, giftID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "gift not found")
		return nil, gift.ErrGiftNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "gift found")
	return g, nil
}

func (r *GiftCatalogRepository) scanGift(row rowScanner) (*gift.Gift, error) {
	var giftID, name, currencyType, icon string
	var price int64
	var active bool

	err := row.Scan(&giftID, &name, &price, &currencyType, &icon, &active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan gift: %w", err)
	}

	ct, err := wallet.NewCurrencyType(currencyType)
	if err != nil {
		return nil, fmt.Errorf("invalid currency type: %w", err)
	}

	g, err := gift.NewGift(giftID, name, price, ct, icon, active)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct gift entity: %w", err)
	}

	return g, nil
}
