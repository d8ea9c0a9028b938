package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/user"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	// statsCountLimit 期間内トランザクション数の集計上限
	// これを超える場合は上限値のまま返す（推定値表示）
	statsCountLimit  = 10000
	statsConcurrency = 8
)

var (
	// ErrReasonRequired 調整・BANに理由が必須
	ErrReasonRequired = errors.New("reason is required")
	// ErrZeroDelta デルタゼロの調整は不可
	ErrZeroDelta = errors.New("delta must be non-zero")
)

// AdminApplicationService 管理アプリケーションサービス
type AdminApplicationService struct {
	walletRepo      wallet.WalletRepository
	transactionRepo transaction.TransactionRepository
	profileRepo     user.ProfileRepository
	ledgerService   *ledger.Service
	txManager       transaction.TransactionManager
	statsSample     int
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewAdminApplicationService 新しいAdminApplicationServiceを作成
func NewAdminApplicationService(
	walletRepo wallet.WalletRepository,
	transactionRepo transaction.TransactionRepository,
	profileRepo user.ProfileRepository,
	ledgerService *ledger.Service,
	txManager transaction.TransactionManager,
	statsSample int,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *AdminApplicationService {
	if statsSample <= 0 {
		statsSample = 1000
	}
	return &AdminApplicationService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		profileRepo:     profileRepo,
		ledgerService:   ledgerService,
		txManager:       txManager,
		statsSample:     statsSample,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("admin-service"),
	}
}

// AdjustBalance 管理者による残高の手動調整
// 理由は必須で、監査レコードに管理者IDとともに残る
func (s *AdminApplicationService) AdjustBalance(ctx context.Context, req *AdjustBalanceRequest) (*AdjustBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.AdjustBalance")
	defer span.End()

	span.SetAttributes(
		attribute.String("admin_id", req.AdminID),
		attribute.String("user_id", req.UserID),
		attribute.Int64("delta", req.Delta),
	)

	if req.Reason == "" {
		err := ErrReasonRequired
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if req.Delta == 0 {
		err := ErrZeroDelta
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	currencyType := wallet.CurrencyTypeCoins
	if req.CurrencyType != "" {
		var err error
		currencyType, err = wallet.NewCurrencyType(req.CurrencyType)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}

	s.logger.Info(ctx, "Admin balance adjustment", map[string]interface{}{
		"admin_id":      req.AdminID,
		"user_id":       req.UserID,
		"currency_type": currencyType.String(),
		"delta":         req.Delta,
		"reason":        req.Reason,
	})

	metadata := map[string]interface{}{
		"reason": req.Reason,
	}

	var result *ledger.MutationResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.ledgerService.ApplyDelta(
			ctx, req.UserID, currencyType, req.Delta,
			transaction.TransactionTypeAdminAdjustment, &req.AdminID, metadata,
		)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to adjust balance", err, map[string]interface{}{
			"admin_id": req.AdminID,
			"user_id":  req.UserID,
		})
		return nil, err
	}

	s.metrics.RecordTransaction(ctx, "admin_adjustment", currencyType.String())
	span.SetStatus(otelcodes.Ok, "")

	return &AdjustBalanceResponse{
		TransactionID: result.TransactionID,
		UserID:        req.UserID,
		CurrencyType:  currencyType.String(),
		Delta:         req.Delta,
		NewBalance:    result.BalanceAfter,
	}, nil
}

// GetStats サンプリングに基づく統計を返す
// 残高合計は最大statsSampleユーザーのサンプルから集計した推定値
func (s *AdminApplicationService) GetStats(ctx context.Context) (*GetStatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.GetStats")
	defer span.End()

	totalUsers, err := s.profileRepo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	userIDs, err := s.profileRepo.ListUserIDs(ctx, s.statsSample)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		mu          sync.Mutex
		totalCoins  int64
		totalBanhMi int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			coins, err := s.balanceOf(gctx, userID, wallet.CurrencyTypeCoins)
			if err != nil {
				return err
			}
			banhMi, err := s.balanceOf(gctx, userID, wallet.CurrencyTypeBanhMi)
			if err != nil {
				return err
			}
			mu.Lock()
			totalCoins += coins
			totalBanhMi += banhMi
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}

	now := time.Now()
	daily, err := s.countSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	weekly, err := s.countSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("sampled_users", len(userIDs)),
		attribute.Int64("total_users", totalUsers),
	)

	return &GetStatsResponse{
		TotalUsers:         totalUsers,
		SampledUsers:       len(userIDs),
		TotalCoins:         totalCoins,
		TotalBanhMi:        totalBanhMi,
		DailyTransactions:  daily,
		WeeklyTransactions: weekly,
		Estimate:           true,
		GeneratedAt:        now,
	}, nil
}

func (s *AdminApplicationService) balanceOf(ctx context.Context, userID string, currencyType wallet.CurrencyType) (int64, error) {
	w, err := s.walletRepo.FindByUserIDAndType(ctx, userID, currencyType)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return w.Balance(), nil
}

func (s *AdminApplicationService) countSince(ctx context.Context, from time.Time) (int, error) {
	filter := transaction.HistoryFilter{From: &from}
	transactions, err := s.transactionRepo.FindRecent(ctx, filter, statsCountLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return len(transactions), nil
}

// ListTransactions トランザクション一覧を取得（管理用）
// UserIDが空の場合は全ユーザー横断で直近のものを返す
func (s *AdminApplicationService) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.ListTransactions")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("transaction_type", req.TransactionType),
	)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var filter transaction.HistoryFilter
	if req.TransactionType != "" {
		txType, err := transaction.NewTransactionType(req.TransactionType)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		filter.TransactionType = &txType
	}

	var (
		transactions []*transaction.Transaction
		err          error
	)
	if req.UserID != "" {
		transactions, err = s.transactionRepo.FindByUserID(ctx, req.UserID, filter, limit, 0)
	} else {
		transactions, err = s.transactionRepo.FindRecent(ctx, filter, limit)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsResponse{Transactions: transactions}, nil
}

// BanUser ユーザーをBANする。理由は必須
func (s *AdminApplicationService) BanUser(ctx context.Context, req *BanUserRequest) (*BanUserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.BanUser")
	defer span.End()

	span.SetAttributes(
		attribute.String("admin_id", req.AdminID),
		attribute.String("user_id", req.UserID),
	)

	if req.Reason == "" {
		err := ErrReasonRequired
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, user.ErrProfileNotFound) {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		profile, err = user.NewProfile(req.UserID, now)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}

	profile.Ban(req.Reason, req.AdminID, now)
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to ban user", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to ban user: %w", err)
	}

	s.logger.Warn(ctx, "User banned", map[string]interface{}{
		"admin_id": req.AdminID,
		"user_id":  req.UserID,
		"reason":   req.Reason,
	})

	return &BanUserResponse{
		UserID:   req.UserID,
		Banned:   true,
		BannedAt: now,
	}, nil
}

// UnbanUser ユーザーのBANを解除する
func (s *AdminApplicationService) UnbanUser(ctx context.Context, req *UnbanUserRequest) (*UnbanUserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.UnbanUser")
	defer span.End()

	span.SetAttributes(
		attribute.String("admin_id", req.AdminID),
		attribute.String("user_id", req.UserID),
	)

	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	profile.Unban(time.Now())
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to unban user: %w", err)
	}

	s.logger.Info(ctx, "User unbanned", map[string]interface{}{
		"admin_id": req.AdminID,
		"user_id":  req.UserID,
	})

	return &UnbanUserResponse{
		UserID: req.UserID,
		Banned: false,
	}, nil
}
