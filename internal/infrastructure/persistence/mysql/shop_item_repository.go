package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/shop"
	"wallet-server/internal/domain/wallet"
)

// ShopItemRepository MySQL実装のショップ商品リポジトリ
type ShopItemRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewShopItemRepository 新しいShopItemRepositoryを作成
func NewShopItemRepository(db *DB) *ShopItemRepository {
	return &ShopItemRepository{
		db:     db,
		tracer: otel.Tracer("shop-item-repository"),
	}
}

const shopItemColumns = `
	item_id, name, price, currency_type, category, emoji, description, effect, active
`

// FindActive 販売中の商品一覧を取得
func (r *ShopItemRepository) FindActive(ctx context.Context) ([]*shop.ShopItem, error) {
	ctx, span := r.tracer.Start(ctx, "ShopItemRepository.FindActive")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "shop_items"),
	)

	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE active = 1
		ORDER BY category, price ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []*shop.ShopItem
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(items)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d items", len(items)))
	return items, nil
}

// FindByID 商品IDで商品を取得
func (r *ShopItemRepository) FindByID(ctx context.Context, itemID string) (*shop.ShopItem, error) {
	ctx, span := r.tracer.Start(ctx, "ShopItemRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.item_id", itemID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "shop_items"),
	)

	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE item_id = ?
	`

	item, err := r.scanItem(r.db.conn(ctx).QueryRowContext(ctx, query, itemID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "item not found")
		return nil, shop.ErrItemNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "item found")
	return item, nil
}

func (r *ShopItemRepository) scanItem(row rowScanner) (*shop.ShopItem, error) {
	var itemID, name, currencyType, category, emoji, description, effect string
	var price int64
	var active bool

	err := row.Scan(&itemID, &name, &price, &currencyType, &category, &emoji, &description, &effect, &active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan shop item: %w", err)
	}

	ct, err := wallet.NewCurrencyType(currencyType)
	if err != nil {
		return nil, fmt.Errorf("invalid currency type: %w", err)
	}

	effectType, err := shop.NewEffectType(effect)
	if err != nil {
		return nil, fmt.Errorf("invalid effect type: %w", err)
	}

	item, err := shop.NewShopItem(itemID, name, price, ct, category, emoji, description, effectType, active)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct shop item entity: %w", err)
	}

	return item, nil
}
