package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/wallet"
)

// TransactionRepository MySQL実装のTransactionRepository
type TransactionRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewTransactionRepository 新しいTransactionRepositoryを作成
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		tracer: otel.Tracer("transaction-repository"),
	}
}

const transactionColumns = `
	transaction_id, user_id, transaction_type, currency_type,
	amount, balance_before, balance_after,
	order_id, requester, metadata, created_at
`

// Append 取引レコードを追記する
// 取引ログは追記専用で、既存レコードの更新は行わない
func (r *TransactionRepository) Append(ctx context.Context, t *transaction.Transaction) error {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.Append")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", t.TransactionID()),
		attribute.String("db.user_id", t.UserID()),
		attribute.String("db.transaction_type", t.TransactionType().String()),
		attribute.String("db.currency_type", t.CurrencyType().String()),
		attribute.Int64("db.amount", t.Amount()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		INSERT INTO transactions (
			transaction_id, user_id, transaction_type, currency_type,
			amount, balance_before, balance_after,
			order_id, requester, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var metadataJSON []byte
	var err error
	if t.Metadata() != nil {
		metadataJSON, err = json.Marshal(t.Metadata())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	var orderIDValue interface{}
	if orderID := t.OrderID(); orderID != nil {
		orderIDValue = *orderID
	}

	var requesterValue interface{}
	if requester := t.Requester(); requester != nil {
		requesterValue = *requester
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, query,
		t.TransactionID(),
		t.UserID(),
		t.TransactionType().String(),
		t.CurrencyType().String(),
		t.Amount(),
		t.BalanceBefore(),
		t.BalanceAfter(),
		orderIDValue,
		requesterValue,
		string(metadataJSON),
		t.CreatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "transaction appended")
	return nil
}

// FindByTransactionID 取引IDで取引を取得
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = ?
	`

	t, err := r.scanOne(r.db.conn(ctx).QueryRowContext(ctx, query, transactionID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "transaction found")
	return t, nil
}

// FindByUserID ユーザーIDで取引一覧を新しい順に取得（フィルタ・ページネーション対応）
func (r *TransactionRepository) FindByUserID(ctx context.Context, userID string, filter transaction.HistoryFilter, limit, offset int) ([]*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByUserID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.user_id", userID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	query, args = appendFilter(query, args, filter)
	query += `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions, err := r.scanRows(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("db.result_count", len(transactions)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d transactions", len(transactions)))
	return transactions, nil
}

// FindByOrderID MoMo注文IDで取引を取得
func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByOrderID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE order_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	t, err := r.scanOne(r.db.conn(ctx).QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "transaction found")
	return t, nil
}

// FindRecent 全ユーザー横断で直近の取引一覧を取得（管理用）
func (r *TransactionRepository) FindRecent(ctx context.Context, filter transaction.HistoryFilter, limit int) ([]*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindRecent")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "transactions"),
	)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE 1 = 1
	`
	var args []interface{}
	query, args = appendFilter(query, args, filter)
	query += `
		ORDER BY created_at DESC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions, err := r.scanRows(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("db.result_count", len(transactions)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d transactions", len(transactions)))
	return transactions, nil
}

// appendFilter フィルタ条件をクエリに追加する
func appendFilter(query string, args []interface{}, filter transaction.HistoryFilter) (string, []interface{}) {
	if filter.TransactionType != nil {
		query += ` AND transaction_type = ?`
		args = append(args, filter.TransactionType.String())
	}
	if filter.From != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND created_at <= ?`
		args = append(args, *filter.To)
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOne 1行をTransactionエンティティに変換する
func (r *TransactionRepository) scanOne(row rowScanner) (*transaction.Transaction, error) {
	var dbTransactionID, dbUserID, dbTransactionType, dbCurrencyType string
	var amount, balanceBefore, balanceAfter int64
	var orderID sql.NullString
	var requester sql.NullString
	var metadataJSON sql.NullString
	var createdAt time.Time

	err := row.Scan(
		&dbTransactionID,
		&dbUserID,
		&dbTransactionType,
		&dbCurrencyType,
		&amount,
		&balanceBefore,
		&balanceAfter,
		&orderID,
		&requester,
		&metadataJSON,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	return r.reconstruct(dbTransactionID, dbUserID, dbTransactionType, dbCurrencyType, amount, balanceBefore, balanceAfter, orderID, requester, metadataJSON, createdAt)
}

// scanRows 複数行をTransactionエンティティのスライスに変換する
func (r *TransactionRepository) scanRows(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) reconstruct(
	transactionID, userID, transactionType, currencyType string,
	amount, balanceBefore, balanceAfter int64,
	orderID, requester, metadataJSON sql.NullString,
	createdAt time.Time,
) (*transaction.Transaction, error) {
	tt, err := transaction.NewTransactionType(transactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type: %w", err)
	}

	ct, err := wallet.NewCurrencyType(currencyType)
	if err != nil {
		return nil, fmt.Errorf("invalid currency type: %w", err)
	}

	var metadata map[string]interface{}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	var requesterPtr *string
	if requester.Valid {
		requesterPtr = &requester.String
	}

	t, err := transaction.NewTransactionWithRequester(
		transactionID,
		userID,
		tt,
		ct,
		amount,
		balanceBefore,
		balanceAfter,
		requesterPtr,
		metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct transaction entity: %w", err)
	}

	if orderID.Valid {
		t.SetOrderID(orderID.String)
	}
	t.SetCreatedAt(createdAt)

	return t, nil
}
