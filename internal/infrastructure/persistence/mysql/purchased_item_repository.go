package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/shop"
)

// 一意制約違反
const mysqlErrDuplicateEntry = 1062

// PurchasedItemRepository MySQL実装の所持アイテムリポジトリ
type PurchasedItemRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewPurchasedItemRepository 新しいPurchasedItemRepositoryを作成
func NewPurchasedItemRepository(db *DB) *PurchasedItemRepository {
	return &PurchasedItemRepository{
		db:     db,
		tracer: otel.Tracer("purchased-item-repository"),
	}
}

// Add 所持アイテムを登録する
// (user_id, item_id) の一意制約を所持重複の排除に使う。
// 消費型は既存行の所持数を加算する
func (r *PurchasedItemRepository) Add(ctx context.Context, p *shop.PurchasedItem, consumable bool) error {
	ctx, span := r.tracer.Start(ctx, "PurchasedItemRepository.Add")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", p.UserID()),
		attribute.String("db.item_id", p.ItemID()),
		attribute.Bool("db.consumable", consumable),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "purchased_items"),
	)

	query := `
		INSERT INTO purchased_items (user_id, item_id, item_name, quantity, purchased_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if consumable {
		query += `
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
	`
	}

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.UserID(),
		p.ItemID(),
		p.ItemName(),
		p.Quantity(),
		p.PurchasedAt(),
	)

	if err != nil {
		var mysqlErr *mysqldriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			span.RecordError(shop.ErrAlreadyOwned)
			span.SetStatus(otelcodes.Error, shop.ErrAlreadyOwned.Error())
			return shop.ErrAlreadyOwned
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to add purchased item: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "purchased item added")
	return nil
}

// Exists 所持しているかどうかを返す
func (r *PurchasedItemRepository) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "PurchasedItemRepository.Exists")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.item_id", itemID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "purchased_items"),
	)

	query := `
		SELECT 1
		FROM purchased_items
		WHERE user_id = ? AND item_id = ?
	`

	var one int
	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID, itemID).Scan(&one)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "not owned")
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, fmt.Errorf("failed to check purchased item: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "owned")
	return true, nil
}

// FindByUserID ユーザーの所持アイテム一覧を取得
func (r *PurchasedItemRepository) FindByUserID(ctx context.Context, userID string) ([]*shop.PurchasedItem, error) {
	ctx, span := r.tracer.Start(ctx, "PurchasedItemRepository.FindByUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "purchased_items"),
	)

	query := `
		SELECT user_id, item_id, item_name, quantity, purchased_at
		FROM purchased_items
		WHERE user_id = ?
		ORDER BY purchased_at DESC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query purchased items: %w", err)
	}
	defer rows.Close()

	var items []*shop.PurchasedItem
	for rows.Next() {
		var dbUserID, itemID, itemName string
		var quantity int
		var purchasedAt time.Time

		if err := rows.Scan(&dbUserID, &itemID, &itemName, &quantity, &purchasedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan purchased item: %w", err)
		}

		item, err := shop.NewPurchasedItem(dbUserID, itemID, itemName, quantity, purchasedAt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to reconstruct purchased item entity: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate purchased items: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(items)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d items", len(items)))
	return items, nil
}
