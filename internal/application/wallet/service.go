package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

const (
	// MaxTopupAmount 1回のチャージの上限
	MaxTopupAmount = 1000
	// MaxSpendAmount 1回の消費の上限
	MaxSpendAmount = 5000
)

// WalletApplicationService ウォレットアプリケーションサービス
type WalletApplicationService struct {
	walletRepo    wallet.WalletRepository
	ledgerService *ledger.Service
	txManager     transaction.TransactionManager
	limiter       reward.Limiter
	rewardAmount  int64
	rewardWindow  time.Duration
	logger        *otelinfra.Logger
	metrics       *otelinfra.Metrics
	tracer        trace.Tracer
}

// NewWalletApplicationService 新しいWalletApplicationServiceを作成
func NewWalletApplicationService(
	walletRepo wallet.WalletRepository,
	ledgerService *ledger.Service,
	txManager transaction.TransactionManager,
	limiter reward.Limiter,
	rewardAmount int64,
	rewardWindow time.Duration,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *WalletApplicationService {
	return &WalletApplicationService{
		walletRepo:    walletRepo,
		ledgerService: ledgerService,
		txManager:     txManager,
		limiter:       limiter,
		rewardAmount:  rewardAmount,
		rewardWindow:  rewardWindow,
		logger:        logger,
		metrics:       metrics,
		tracer:        otel.Tracer("wallet-service"),
	}
}

// GetBalance 両通貨の残高を取得。ウォレット未作成の通貨はゼロ
func (s *WalletApplicationService) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.GetBalance")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
	)

	balances := make(map[string]int64)
	for _, ct := range []wallet.CurrencyType{wallet.CurrencyTypeCoins, wallet.CurrencyTypeBanhMi} {
		w, err := s.walletRepo.FindByUserIDAndType(ctx, req.UserID, ct)
		if err != nil && !errors.Is(err, wallet.ErrWalletNotFound) {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			s.logger.Error(ctx, "Failed to find wallet", err, map[string]interface{}{
				"user_id":       req.UserID,
				"currency_type": ct.String(),
			})
			return nil, fmt.Errorf("failed to find wallet: %w", err)
		}

		if w != nil {
			balances[ct.String()] = w.Balance()
			s.metrics.RecordWalletBalance(ctx, req.UserID, ct.String(), w.Balance())
		} else {
			balances[ct.String()] = 0
		}
	}

	return &GetBalanceResponse{
		UserID:   req.UserID,
		Balances: balances,
	}, nil
}

// Topup 残高を直接チャージする
func (s *WalletApplicationService) Topup(ctx context.Context, req *TopupRequest) (*TopupResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.Topup")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int64("amount", req.Amount),
	)

	s.logger.Info(ctx, "Topping up wallet", map[string]interface{}{
		"user_id": req.UserID,
		"amount":  req.Amount,
	})

	if req.Amount < 1 || req.Amount > MaxTopupAmount {
		err := wallet.ErrAmountOutOfRange
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	currencyType, err := s.resolveCurrencyType(req.CurrencyType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var result *ledger.MutationResult
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.UserID, currencyType, req.Amount,
			transaction.TransactionTypeTopup, nil, req.Metadata,
		)
		return applyErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to topup", err, map[string]interface{}{
			"user_id": req.UserID,
			"amount":  req.Amount,
		})
		s.metrics.RecordError(ctx, "topup_failed")
		return nil, err
	}

	s.metrics.RecordTransaction(ctx, "topup", currencyType.String())
	s.metrics.RecordWalletBalance(ctx, req.UserID, currencyType.String(), result.BalanceAfter)

	s.logger.Info(ctx, "Wallet topped up successfully", map[string]interface{}{
		"user_id":        req.UserID,
		"transaction_id": result.TransactionID,
		"new_balance":    result.BalanceAfter,
	})

	return &TopupResponse{
		TransactionID: result.TransactionID,
		Amount:        req.Amount,
		NewBalance:    result.BalanceAfter,
	}, nil
}

// Spend 残高を直接消費する
func (s *WalletApplicationService) Spend(ctx context.Context, req *SpendRequest) (*SpendResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.Spend")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int64("amount", req.Amount),
	)

	s.logger.Info(ctx, "Spending from wallet", map[string]interface{}{
		"user_id": req.UserID,
		"amount":  req.Amount,
	})

	if req.Amount < 1 || req.Amount > MaxSpendAmount {
		err := wallet.ErrAmountOutOfRange
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	currencyType, err := s.resolveCurrencyType(req.CurrencyType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var result *ledger.MutationResult
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.UserID, currencyType, -req.Amount,
			transaction.TransactionTypeSpend, nil, req.Metadata,
		)
		return applyErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to spend", err, map[string]interface{}{
			"user_id": req.UserID,
			"amount":  req.Amount,
		})
		s.metrics.RecordError(ctx, "spend_failed")
		return nil, err
	}

	s.metrics.RecordTransaction(ctx, "spend", currencyType.String())
	s.metrics.RecordWalletBalance(ctx, req.UserID, currencyType.String(), result.BalanceAfter)

	s.logger.Info(ctx, "Wallet spent successfully", map[string]interface{}{
		"user_id":        req.UserID,
		"transaction_id": result.TransactionID,
		"new_balance":    result.BalanceAfter,
	})

	return &SpendResponse{
		TransactionID: result.TransactionID,
		Amount:        req.Amount,
		NewBalance:    result.BalanceAfter,
	}, nil
}

// Reward 広告視聴リワードを付与する
// 受取枠の確保が先、残高加算が後。期間内2回目以降はreward.ErrAlreadyClaimed
func (s *WalletApplicationService) Reward(ctx context.Context, req *RewardRequest) (*RewardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.Reward")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("ad_id", req.AdID),
	)

	s.logger.Info(ctx, "Claiming ad reward", map[string]interface{}{
		"user_id": req.UserID,
		"ad_id":   req.AdID,
	})

	if err := s.limiter.Claim(ctx, req.UserID); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if !errors.Is(err, reward.ErrAlreadyClaimed) {
			s.metrics.RecordError(ctx, "reward_claim_failed")
		}
		return nil, err
	}

	metadata := map[string]interface{}{
		"ad_id": req.AdID,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	var result *ledger.MutationResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.UserID, wallet.CurrencyTypeCoins, s.rewardAmount,
			transaction.TransactionTypeReward, nil, metadata,
		)
		return applyErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to grant ad reward", err, map[string]interface{}{
			"user_id": req.UserID,
			"ad_id":   req.AdID,
		})
		s.metrics.RecordError(ctx, "reward_failed")
		return nil, err
	}

	s.metrics.RecordTransaction(ctx, "reward", wallet.CurrencyTypeCoins.String())
	s.metrics.RecordWalletBalance(ctx, req.UserID, wallet.CurrencyTypeCoins.String(), result.BalanceAfter)

	s.logger.Info(ctx, "Ad reward granted successfully", map[string]interface{}{
		"user_id":        req.UserID,
		"transaction_id": result.TransactionID,
		"amount":         s.rewardAmount,
	})

	return &RewardResponse{
		TransactionID: result.TransactionID,
		Amount:        s.rewardAmount,
		NewBalance:    result.BalanceAfter,
		NextClaimAt:   time.Now().Add(s.rewardWindow),
	}, nil
}

// resolveCurrencyType 通貨タイプを解決する。空文字はcoins
func (s *WalletApplicationService) resolveCurrencyType(ct string) (wallet.CurrencyType, error) {
	if ct == "" {
		return wallet.CurrencyTypeCoins, nil
	}
	return wallet.NewCurrencyType(ct)
}
