package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/wallet"
)

// MutationResult 残高変動の結果
type MutationResult struct {
	TransactionID string
	UserID        string
	CurrencyType  wallet.CurrencyType
	BalanceBefore int64
	BalanceAfter  int64
}

// Service 残高変動ドメインサービス
// 全ての残高の増減はこのサービスを経由する
type Service struct {
	walletRepo      wallet.WalletRepository
	transactionRepo transaction.TransactionRepository
	tracer          trace.Tracer
	maxRetries      int
}

// NewService 新しいServiceを作成
func NewService(
	walletRepo wallet.WalletRepository,
	transactionRepo transaction.TransactionRepository,
) *Service {
	return &Service{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		tracer:          otel.Tracer("ledger-service"),
		maxRetries:      3,
	}
}

// ApplyDelta 残高にデルタを適用し、取引履歴を1件記録する
// デルタが正なら加算、負なら減算。ゼロは拒否する。
// 楽観的ロックの競合時は再取得してリトライする。
func (s *Service) ApplyDelta(
	ctx context.Context,
	userID string,
	currencyType wallet.CurrencyType,
	delta int64,
	txType transaction.TransactionType,
	requester *string,
	metadata map[string]interface{},
) (*MutationResult, error) {
	return s.applyDelta(ctx, userID, currencyType, delta, txType, requester, nil, metadata)
}

// ApplyDeltaWithOrderID MoMo注文IDを紐付けて残高にデルタを適用する
func (s *Service) ApplyDeltaWithOrderID(
	ctx context.Context,
	userID string,
	currencyType wallet.CurrencyType,
	delta int64,
	txType transaction.TransactionType,
	orderID string,
	metadata map[string]interface{},
) (*MutationResult, error) {
	return s.applyDelta(ctx, userID, currencyType, delta, txType, nil, &orderID, metadata)
}

func (s *Service) applyDelta(
	ctx context.Context,
	userID string,
	currencyType wallet.CurrencyType,
	delta int64,
	txType transaction.TransactionType,
	requester *string,
	orderID *string,
	metadata map[string]interface{},
) (*MutationResult, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerService.ApplyDelta")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("currency_type", currencyType.String()),
		attribute.Int64("delta", delta),
		attribute.String("transaction_type", txType.String()),
	)

	if delta == 0 {
		err := wallet.ErrInvalidAmount
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	transactionID := s.generateTransactionID()

	// 楽観的ロックのリトライロジック
	var retryErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			// 指数バックオフ
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 10 * time.Millisecond
			time.Sleep(backoff)
		}

		// ウォレットを取得
		w, err := s.walletRepo.FindByUserIDAndType(ctx, userID, currencyType)
		if err != nil && !errors.Is(err, wallet.ErrWalletNotFound) {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to find wallet: %w", err)
		}

		if w == nil {
			// ウォレットが存在しない場合は残高ゼロで作成
			w, err = wallet.NewWallet(userID, currencyType, 0, 0)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
				return nil, err
			}
			if err := s.walletRepo.Create(ctx, w); err != nil {
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
				return nil, fmt.Errorf("failed to create wallet: %w", err)
			}
		}

		balanceBefore := w.Balance()

		if delta > 0 {
			err = w.Credit(delta)
		} else {
			err = w.Debit(-delta)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}

		// 保存（楽観的ロック）
		if err := s.walletRepo.Save(ctx, w); err != nil {
			if errors.Is(err, wallet.ErrVersionConflict) && attempt < s.maxRetries-1 {
				retryErr = err
				continue
			}
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to save wallet after retries: %w", err)
		}

		// 取引履歴を記録
		amount := delta
		if amount < 0 {
			amount = -amount
		}
		txn, err := transaction.NewTransactionWithRequester(
			transactionID,
			userID,
			txType,
			currencyType,
			amount,
			balanceBefore,
			w.Balance(),
			requester,
			metadata,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		if orderID != nil {
			txn.SetOrderID(*orderID)
		}

		if err := s.transactionRepo.Append(ctx, txn); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to append transaction: %w", err)
		}

		return &MutationResult{
			TransactionID: transactionID,
			UserID:        userID,
			CurrencyType:  currencyType,
			BalanceBefore: balanceBefore,
			BalanceAfter:  w.Balance(),
		}, nil
	}

	span.RecordError(retryErr)
	span.SetStatus(otelcodes.Error, retryErr.Error())
	return nil, retryErr
}

// generateTransactionID 取引IDを生成
func (s *Service) generateTransactionID() string {
	return fmt.Sprintf("txn_%s", uuid.NewString())
}
