package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

var (
	// ErrInvalidTransactionTypeFilter transaction_typeフィルタが不正
	ErrInvalidTransactionTypeFilter = errors.New("invalid transaction type filter")
	// ErrInvalidTimeFilter from/toフィルタがRFC3339でない
	ErrInvalidTimeFilter = errors.New("invalid time filter")
)

// HistoryApplicationService 履歴アプリケーションサービス
type HistoryApplicationService struct {
	transactionRepo transaction.TransactionRepository
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	transactionRepo transaction.TransactionRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		transactionRepo: transactionRepo,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("history-service"),
	}
}

// GetTransactionHistory トランザクション履歴を取得（新しい順）
func (s *HistoryApplicationService) GetTransactionHistory(ctx context.Context, req *GetTransactionHistoryRequest) (*GetTransactionHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetTransactionHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	s.logger.Info(ctx, "Getting transaction history", map[string]interface{}{
		"user_id":          req.UserID,
		"limit":            req.Limit,
		"offset":           req.Offset,
		"transaction_type": req.TransactionType,
	})

	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	filter, err := buildFilter(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByUserID(ctx, req.UserID, filter, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get transaction history", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	// 通貨フィルタはSQLに押し込まず取得後に適用する
	// 1ページ分の件数では十分に安い
	if req.CurrencyType != "" {
		currencyType, err := wallet.NewCurrencyType(req.CurrencyType)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		filtered := make([]*transaction.Transaction, 0, len(transactions))
		for _, txn := range transactions {
			if txn.CurrencyType() == currencyType {
				filtered = append(filtered, txn)
			}
		}
		transactions = filtered
	}

	return &GetTransactionHistoryResponse{
		Transactions: transactions,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}, nil
}

func buildFilter(req *GetTransactionHistoryRequest) (transaction.HistoryFilter, error) {
	var filter transaction.HistoryFilter

	if req.TransactionType != "" {
		txType, err := transaction.NewTransactionType(req.TransactionType)
		if err != nil {
			return filter, fmt.Errorf("%w: %s", ErrInvalidTransactionTypeFilter, req.TransactionType)
		}
		filter.TransactionType = &txType
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return filter, fmt.Errorf("%w: from", ErrInvalidTimeFilter)
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return filter, fmt.Errorf("%w: to", ErrInvalidTimeFilter)
		}
		filter.To = &to
	}
	return filter, nil
}
