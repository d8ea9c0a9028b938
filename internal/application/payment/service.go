package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/payment"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/user"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
	"wallet-server/internal/infrastructure/payment/momo"
)

// Gateway MoMo決済ゲートウェイへの依存
type Gateway interface {
	CreatePayment(ctx context.Context, req *momo.CreatePaymentRequest) (*momo.CreatePaymentResponse, error)
	VerifyCallbackSignature(payload *momo.CallbackPayload) bool
}

// PaymentApplicationService MoMo決済アプリケーションサービス
type PaymentApplicationService struct {
	orderRepo     payment.OrderRepository
	profileRepo   user.ProfileRepository
	ledgerService *ledger.Service
	txManager     transaction.TransactionManager
	gateway       Gateway
	logger        *otelinfra.Logger
	metrics       *otelinfra.Metrics
	tracer        trace.Tracer
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
func NewPaymentApplicationService(
	orderRepo payment.OrderRepository,
	profileRepo user.ProfileRepository,
	ledgerService *ledger.Service,
	txManager transaction.TransactionManager,
	gateway Gateway,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		orderRepo:     orderRepo,
		profileRepo:   profileRepo,
		ledgerService: ledgerService,
		txManager:     txManager,
		gateway:       gateway,
		logger:        logger,
		metrics:       metrics,
		tracer:        otel.Tracer("payment-service"),
	}
}

// CreatePayment MoMoに決済を作成し、pendingの注文を保存する
func (s *PaymentApplicationService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CreatePayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.Int64("amount", req.Amount),
		attribute.String("purchase_type", req.PurchaseType),
	)

	s.logger.Info(ctx, "Creating MoMo payment", map[string]interface{}{
		"user_id":       req.UserID,
		"amount":        req.Amount,
		"purchase_type": req.PurchaseType,
	})

	purchaseType, err := payment.NewPurchaseType(req.PurchaseType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	orderID := generateOrderID()
	now := time.Now()

	// 注文エンティティのバリデーションを先に通す
	order, err := payment.NewMomoOrder(
		orderID, orderID, req.UserID, req.Amount,
		purchaseType, req.CoinAmount, req.DurationDays, req.PackageID, now,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	orderInfo := req.OrderInfo
	if orderInfo == "" {
		orderInfo = "Thanh toan vi dien tu"
	}

	momoResp, err := s.gateway.CreatePayment(ctx, &momo.CreatePaymentRequest{
		OrderID:   orderID,
		RequestID: orderID,
		Amount:    req.Amount,
		OrderInfo: orderInfo,
		ExtraData: "",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "MoMo create payment failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		s.metrics.RecordError(ctx, "momo_create_failed")
		return nil, fmt.Errorf("momo create payment failed: %w", err)
	}
	if momoResp.ResultCode != 0 {
		err := fmt.Errorf("momo rejected payment: %s (code %d)", momoResp.Message, momoResp.ResultCode)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordError(ctx, "momo_rejected")
		return nil, err
	}

	order.SetPaymentLinks(momoResp.PayURL, momoResp.Deeplink, momoResp.QRCodeURL)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to persist momo order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, fmt.Errorf("failed to persist momo order: %w", err)
	}

	s.logger.Info(ctx, "MoMo payment created", map[string]interface{}{
		"order_id": orderID,
		"pay_url":  momoResp.PayURL,
	})

	return &CreatePaymentResponse{
		OrderID:   orderID,
		PayURL:    momoResp.PayURL,
		Deeplink:  momoResp.Deeplink,
		QRCodeURL: momoResp.QRCodeURL,
	}, nil
}

// HandleCallback MoMoからのIPN通知を処理する
// 署名検証が唯一の認証。同じ注文への再通知は副作用なしで成功を返す
func (s *PaymentApplicationService) HandleCallback(ctx context.Context, payload *momo.CallbackPayload) (*HandleCallbackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.HandleCallback")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", payload.OrderID),
		attribute.Int("result_code", payload.ResultCode),
	)

	s.logger.Info(ctx, "MoMo callback received", map[string]interface{}{
		"order_id":    payload.OrderID,
		"result_code": payload.ResultCode,
		"trans_id":    payload.TransID,
	})

	if !s.gateway.VerifyCallbackSignature(payload) {
		err := payment.ErrInvalidSignature
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Invalid MoMo callback signature", map[string]interface{}{
			"order_id": payload.OrderID,
		})
		s.metrics.RecordMomoCallback(ctx, "invalid_signature")
		return nil, err
	}

	order, err := s.orderRepo.FindByOrderID(ctx, payload.OrderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordMomoCallback(ctx, "order_not_found")
		return nil, err
	}

	if !order.Pending() {
		s.logger.Info(ctx, "MoMo order already processed", map[string]interface{}{
			"order_id": order.OrderID(),
			"status":   order.Status().String(),
		})
		s.metrics.RecordMomoCallback(ctx, "already_processed")
		return &HandleCallbackResponse{
			OrderID:          order.OrderID(),
			Status:           order.Status().String(),
			AlreadyProcessed: true,
		}, nil
	}

	now := time.Now()

	if payload.ResultCode != 0 {
		if err := s.orderRepo.MarkFail(ctx, order.OrderID(), payload.Message, now); err != nil {
			if errors.Is(err, payment.ErrOrderAlreadyFinalized) {
				return &HandleCallbackResponse{OrderID: order.OrderID(), Status: order.Status().String(), AlreadyProcessed: true}, nil
			}
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to mark order failed: %w", err)
		}
		s.metrics.RecordMomoCallback(ctx, "failed")
		s.logger.Info(ctx, "MoMo payment failed", map[string]interface{}{
			"order_id": order.OrderID(),
			"reason":   payload.Message,
		})
		return &HandleCallbackResponse{
			OrderID: order.OrderID(),
			Status:  payment.OrderStatusFailed.String(),
		}, nil
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// 条件付きUPDATEが並行コールバックの二重付与を防ぐ
		momoTransID := fmt.Sprintf("%d", payload.TransID)
		if err := s.orderRepo.MarkSuccess(ctx, order.OrderID(), momoTransID, now); err != nil {
			return err
		}
		return s.grantPurchase(ctx, order, now)
	})
	if err != nil {
		if errors.Is(err, payment.ErrOrderAlreadyFinalized) {
			s.metrics.RecordMomoCallback(ctx, "already_processed")
			return &HandleCallbackResponse{OrderID: order.OrderID(), Status: order.Status().String(), AlreadyProcessed: true}, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to finalize momo order", err, map[string]interface{}{
			"order_id": order.OrderID(),
		})
		s.metrics.RecordMomoCallback(ctx, "error")
		return nil, err
	}

	s.metrics.RecordMomoCallback(ctx, "success")
	s.logger.Info(ctx, "MoMo payment completed", map[string]interface{}{
		"order_id":      order.OrderID(),
		"purchase_type": order.PurchaseType().String(),
	})

	return &HandleCallbackResponse{
		OrderID: order.OrderID(),
		Status:  payment.OrderStatusSuccess.String(),
	}, nil
}

// CheckStatus 注文の決済状態を確認する。本人の注文のみ参照可能
func (s *PaymentApplicationService) CheckStatus(ctx context.Context, req *CheckStatusRequest) (*CheckStatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CheckStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("order_id", req.OrderID),
	)

	if req.OrderID == "" {
		err := payment.ErrInvalidOrder
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	order, err := s.orderRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if order.UserID() != req.UserID {
		err := payment.ErrNotOrderOwner
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return &CheckStatusResponse{
		OrderID:      order.OrderID(),
		Status:       order.Status().String(),
		Amount:       order.Amount(),
		PurchaseType: order.PurchaseType().String(),
		CoinAmount:   order.CoinAmount(),
		FailReason:   order.FailReason(),
	}, nil
}

// grantPurchase 決済成功時の特典を付与する
func (s *PaymentApplicationService) grantPurchase(ctx context.Context, order *payment.MomoOrder, now time.Time) error {
	switch order.PurchaseType() {
	case payment.PurchaseTypeCoin:
		metadata := map[string]interface{}{
			"momo_order_id": order.OrderID(),
			"package_id":    order.PackageID(),
			"amount_vnd":    order.Amount(),
		}
		_, err := s.ledgerService.ApplyDeltaWithOrderID(
			ctx, order.UserID(), wallet.CurrencyTypeCoins, order.CoinAmount(),
			transaction.TransactionTypeMomoTopup, order.OrderID(), metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to credit coins: %w", err)
		}
		s.metrics.RecordTransaction(ctx, "momo_topup", wallet.CurrencyTypeCoins.String())
		return nil

	case payment.PurchaseTypePro:
		profile, err := s.profileRepo.FindByUserID(ctx, order.UserID())
		if err != nil {
			if !errors.Is(err, user.ErrProfileNotFound) {
				return fmt.Errorf("failed to find profile: %w", err)
			}
			profile, err = user.NewProfile(order.UserID(), now)
			if err != nil {
				return err
			}
		}
		profile.GrantPro(time.Duration(order.DurationDays())*24*time.Hour, now)
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil

	default:
		return payment.ErrInvalidPurchaseType
	}
}

func generateOrderID() string {
	return "TR" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
