package gift

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

const (
	defaultReceivedLimit = 50
	maxReceivedLimit     = 1000
)

// GiftApplicationService ギフトアプリケーションサービス
type GiftApplicationService struct {
	catalogRepo   gift.CatalogRepository
	receiptRepo   gift.ReceiptRepository
	ledgerService *ledger.Service
	txManager     transaction.TransactionManager
	limiter       reward.Limiter
	logger        *otelinfra.Logger
	metrics       *otelinfra.Metrics
	tracer        trace.Tracer
}

// NewGiftApplicationService 新しいGiftApplicationServiceを作成
func NewGiftApplicationService(
	catalogRepo gift.CatalogRepository,
	receiptRepo gift.ReceiptRepository,
	ledgerService *ledger.Service,
	txManager transaction.TransactionManager,
	limiter reward.Limiter,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *GiftApplicationService {
	return &GiftApplicationService{
		catalogRepo:   catalogRepo,
		receiptRepo:   receiptRepo,
		ledgerService: ledgerService,
		txManager:     txManager,
		limiter:       limiter,
		logger:        logger,
		metrics:       metrics,
		tracer:        otel.Tracer("gift-service"),
	}
}

// GetCatalog 有効なギフトカタログを取得
func (s *GiftApplicationService) GetCatalog(ctx context.Context) (*GetCatalogResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GiftApplicationService.GetCatalog")
	defer span.End()

	gifts, err := s.catalogRepo.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find active gifts: %w", err)
	}

	dtos := make([]GiftDTO, 0, len(gifts))
	for _, g := range gifts {
		dtos = append(dtos, toGiftDTO(g))
	}

	return &GetCatalogResponse{
		Gifts: dtos,
		Count: len(dtos),
	}, nil
}

// Send ギフトを送信する
// 送信者の残高からギフト価格を引き落とし、受信者にレシートを作成する。
// 引き落としとレシート作成は同一DBトランザクション内で行う
func (s *GiftApplicationService) Send(ctx context.Context, req *SendGiftRequest) (*SendGiftResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GiftApplicationService.Send")
	defer span.End()

	span.SetAttributes(
		attribute.String("from_user_id", req.FromUserID),
		attribute.String("to_user_id", req.ToUserID),
		attribute.String("gift_id", req.GiftID),
	)

	s.logger.Info(ctx, "Sending gift", map[string]interface{}{
		"from_user_id": req.FromUserID,
		"to_user_id":   req.ToUserID,
		"gift_id":      req.GiftID,
	})

	if req.FromUserID == "" || req.ToUserID == "" || req.GiftID == "" || req.FromName == "" {
		err := gift.ErrInvalidGift
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	g, err := s.catalogRepo.FindByID(ctx, req.GiftID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if !g.Active() {
		err := gift.ErrGiftInactive
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	receiptID := generateReceiptID()
	receipt, err := gift.NewGiftReceipt(receiptID, req.FromUserID, req.FromName, req.ToUserID, req.RoomID, g, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	metadata := map[string]interface{}{
		"gift_id":      g.GiftID(),
		"receipt_id":   receiptID,
		"receiver_uid": req.ToUserID,
		"room_id":      req.RoomID,
	}

	var result *ledger.MutationResult
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.FromUserID, g.CurrencyType(), -g.Price(),
			transaction.TransactionTypeGiftSent, nil, metadata,
		)
		if applyErr != nil {
			return applyErr
		}
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to send gift", err, map[string]interface{}{
			"from_user_id": req.FromUserID,
			"gift_id":      req.GiftID,
		})
		s.metrics.RecordError(ctx, "gift_send_failed")
		return nil, err
	}

	s.metrics.RecordGiftSent(ctx, g.GiftID())
	s.metrics.RecordTransaction(ctx, "gift_sent", g.CurrencyType().String())

	// チャットへのギフトメッセージ配信はチャット基盤側の責務。ここでは記録だけ残す
	s.logger.Info(ctx, "Gift sent successfully", map[string]interface{}{
		"receipt_id":     receiptID,
		"transaction_id": result.TransactionID,
		"room_id":        req.RoomID,
	})

	return &SendGiftResponse{
		ReceiptID:     receiptID,
		TransactionID: result.TransactionID,
		Gift:          toGiftDTO(g),
		NewBalance:    result.BalanceAfter,
	}, nil
}

// ListReceived 受信ギフトの一覧を新しい順で取得
func (s *GiftApplicationService) ListReceived(ctx context.Context, req *ListReceivedRequest) (*ListReceivedResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GiftApplicationService.ListReceived")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
	)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultReceivedLimit
	}
	if limit > maxReceivedLimit {
		limit = maxReceivedLimit
	}

	var status *gift.ReceiptStatus
	if req.Status != "" {
		st, err := gift.NewReceiptStatus(req.Status)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		status = &st
	}

	receipts, err := s.receiptRepo.FindByToUserID(ctx, req.UserID, status, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find receipts: %w", err)
	}

	dtos := make([]ReceiptDTO, 0, len(receipts))
	for _, r := range receipts {
		dtos = append(dtos, toReceiptDTO(r))
	}

	return &ListReceivedResponse{
		Receipts: dtos,
		Count:    len(dtos),
	}, nil
}

// Redeem 受信ギフトをコインに換金する
// 換金は1レシートにつき1回きり。レートは (0, 1] でサーバー側で検証する
func (s *GiftApplicationService) Redeem(ctx context.Context, req *RedeemGiftRequest) (*RedeemGiftResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GiftApplicationService.Redeem")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("receipt_id", req.ReceiptID),
	)

	s.logger.Info(ctx, "Redeeming gift", map[string]interface{}{
		"user_id":    req.UserID,
		"receipt_id": req.ReceiptID,
	})

	if req.ReceiptID == "" {
		err := gift.ErrInvalidReceipt
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	rate := req.Rate
	if rate == 0 {
		rate = 1
	}

	receipt, err := s.receiptRepo.FindByID(ctx, req.ReceiptID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if receipt.ToUserID() != req.UserID {
		err := gift.ErrNotReceiptOwner
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	redeemValue, err := receipt.Redeem(rate, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	metadata := map[string]interface{}{
		"receipt_id": receipt.ReceiptID(),
		"gift_id":    receipt.Gift().GiftID(),
		"rate":       rate,
	}

	var result *ledger.MutationResult
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// 条件付きUPDATEが二重換金の最終防壁になる
		if err := s.receiptRepo.MarkRedeemed(ctx, receipt.ReceiptID(), redeemValue, now); err != nil {
			return err
		}
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.UserID, wallet.CurrencyTypeCoins, redeemValue,
			transaction.TransactionTypeGiftRedeemed, nil, metadata,
		)
		return applyErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to redeem gift", err, map[string]interface{}{
			"user_id":    req.UserID,
			"receipt_id": req.ReceiptID,
		})
		if !errors.Is(err, gift.ErrAlreadyRedeemed) {
			s.metrics.RecordError(ctx, "gift_redeem_failed")
		}
		return nil, err
	}

	s.metrics.RecordGiftRedeemed(ctx, receipt.Gift().GiftID())
	s.metrics.RecordTransaction(ctx, "gift_redeemed", wallet.CurrencyTypeCoins.String())

	s.logger.Info(ctx, "Gift redeemed successfully", map[string]interface{}{
		"receipt_id":     req.ReceiptID,
		"redeem_value":   redeemValue,
		"transaction_id": result.TransactionID,
	})

	return &RedeemGiftResponse{
		ReceiptID:     req.ReceiptID,
		TransactionID: result.TransactionID,
		RedeemValue:   redeemValue,
		NewBalance:    result.BalanceAfter,
	}, nil
}

// RewardGift 広告視聴の報酬としてランダムなギフトを配布する
// 残高は変動せず、システム送信のレシートだけが作られる。1日1回まで
func (s *GiftApplicationService) RewardGift(ctx context.Context, req *RewardGiftRequest) (*RewardGiftResponse, error) {
	ctx, span := s.tracer.Start(ctx, "GiftApplicationService.RewardGift")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("ad_id", req.AdID),
	)

	if req.AdID == "" {
		err := gift.ErrInvalidGift
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	// コインリワードとは別枠で受取回数を数える
	if err := s.limiter.Claim(ctx, "gift:"+req.UserID); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	gifts, err := s.catalogRepo.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find active gifts: %w", err)
	}
	if len(gifts) == 0 {
		err := gift.ErrGiftNotFound
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	chosen := gifts[rand.Intn(len(gifts))]

	receiptID := generateReceiptID()
	receipt, err := gift.NewGiftReceipt(receiptID, gift.SystemSender, "Hệ thống", req.UserID, "", chosen, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to create reward gift receipt", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	s.metrics.RecordGiftSent(ctx, chosen.GiftID())

	s.logger.Info(ctx, "Reward gift granted", map[string]interface{}{
		"user_id":    req.UserID,
		"receipt_id": receiptID,
		"gift_id":    chosen.GiftID(),
	})

	return &RewardGiftResponse{
		ReceiptID: receiptID,
		Gift:      toGiftDTO(chosen),
	}, nil
}

func toGiftDTO(g *gift.Gift) GiftDTO {
	return GiftDTO{
		GiftID:       g.GiftID(),
		Name:         g.Name(),
		Price:        g.Price(),
		CurrencyType: g.CurrencyType().String(),
		Icon:         g.Icon(),
	}
}

func toReceiptDTO(r *gift.GiftReceipt) ReceiptDTO {
	return ReceiptDTO{
		ReceiptID:   r.ReceiptID(),
		FromUserID:  r.FromUserID(),
		FromName:    r.FromName(),
		RoomID:      r.RoomID(),
		Gift:        toGiftDTO(r.Gift()),
		Status:      r.Status().String(),
		Redeemed:    r.Redeemed(),
		RedeemValue: r.RedeemValue(),
		RedeemedAt:  r.RedeemedAt(),
		CreatedAt:   r.CreatedAt(),
	}
}

func generateReceiptID() string {
	return fmt.Sprintf("rcpt_%s", uuid.NewString())
}
