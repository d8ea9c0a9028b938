package shop

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
	"wallet-server/internal/domain/shop"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/user"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

const (
	proDuration   = 30 * 24 * time.Hour
	boostDuration = 24 * time.Hour
)

// ShopApplicationService ショップアプリケーションサービス
type ShopApplicationService struct {
	itemRepo      shop.ItemRepository
	purchasedRepo shop.PurchasedItemRepository
	profileRepo   user.ProfileRepository
	ledgerService *ledger.Service
	txManager     transaction.TransactionManager
	logger        *otelinfra.Logger
	metrics       *otelinfra.Metrics
	tracer        trace.Tracer
}

// NewShopApplicationService 新しいShopApplicationServiceを作成
func NewShopApplicationService(
	itemRepo shop.ItemRepository,
	purchasedRepo shop.PurchasedItemRepository,
	profileRepo user.ProfileRepository,
	ledgerService *ledger.Service,
	txManager transaction.TransactionManager,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *ShopApplicationService {
	return &ShopApplicationService{
		itemRepo:      itemRepo,
		purchasedRepo: purchasedRepo,
		profileRepo:   profileRepo,
		ledgerService: ledgerService,
		txManager:     txManager,
		logger:        logger,
		metrics:       metrics,
		tracer:        otel.Tracer("shop-service"),
	}
}

// ListItems 販売中の商品一覧を取得
func (s *ShopApplicationService) ListItems(ctx context.Context) (*ListItemsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.ListItems")
	defer span.End()

	items, err := s.itemRepo.FindActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find active items: %w", err)
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, i := range items {
		dtos = append(dtos, toItemDTO(i))
	}

	return &ListItemsResponse{
		Items: dtos,
		Count: len(dtos),
	}, nil
}

// GetItem 商品を1件取得
func (s *ShopApplicationService) GetItem(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.GetItem")
	defer span.End()

	span.SetAttributes(attribute.String("item_id", req.ItemID))

	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return &GetItemResponse{Item: toItemDTO(item)}, nil
}

// Purchase 商品を購入する
// 引き落とし、所持登録、アカウント効果の適用を同一DBトランザクションで行う。
// 非消費型の重複購入はErrAlreadyOwned
func (s *ShopApplicationService) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.Purchase")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("item_id", req.ItemID),
	)

	s.logger.Info(ctx, "Purchasing item", map[string]interface{}{
		"user_id": req.UserID,
		"item_id": req.ItemID,
	})

	if req.ItemID == "" {
		err := shop.ErrInvalidItem
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if !item.Active() {
		err := shop.ErrItemInactive
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	// 非消費型は引き落とし前に所持チェックする
	// 最終的な一意性はDBの複合ユニークキーが守る
	if !item.Consumable() {
		owned, err := s.purchasedRepo.Exists(ctx, req.UserID, item.ItemID())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to check ownership: %w", err)
		}
		if owned {
			err := shop.ErrAlreadyOwned
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
	}

	now := time.Now()
	purchased, err := shop.NewPurchasedItem(req.UserID, item.ItemID(), item.Name(), 1, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	metadata := map[string]interface{}{
		"item_id":   item.ItemID(),
		"item_name": item.Name(),
		"effect":    item.Effect().String(),
	}

	var result *ledger.MutationResult
	var profile *user.Profile
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var applyErr error
		result, applyErr = s.ledgerService.ApplyDelta(
			ctx, req.UserID, item.CurrencyType(), -item.Price(),
			transaction.TransactionTypePurchase, nil, metadata,
		)
		if applyErr != nil {
			return applyErr
		}

		if err := s.purchasedRepo.Add(ctx, purchased, item.Consumable()); err != nil {
			return err
		}

		var effectErr error
		profile, effectErr = s.applyEffect(ctx, req.UserID, item.Effect(), now)
		return effectErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to purchase item", err, map[string]interface{}{
			"user_id": req.UserID,
			"item_id": req.ItemID,
		})
		if !errors.Is(err, shop.ErrAlreadyOwned) {
			s.metrics.RecordError(ctx, "purchase_failed")
		}
		return nil, err
	}

	s.metrics.RecordShopPurchase(ctx, item.ItemID(), item.Category())
	s.metrics.RecordTransaction(ctx, "purchase", item.CurrencyType().String())

	s.logger.Info(ctx, "Item purchased successfully", map[string]interface{}{
		"user_id":        req.UserID,
		"item_id":        item.ItemID(),
		"transaction_id": result.TransactionID,
		"new_balance":    result.BalanceAfter,
	})

	resp := &PurchaseResponse{
		ItemID:        item.ItemID(),
		ItemName:      item.Name(),
		Price:         item.Price(),
		TransactionID: result.TransactionID,
		NewBalance:    result.BalanceAfter,
	}
	if profile != nil {
		resp.ProExpiresAt = profile.ProExpiresAt()
		resp.BoostedUntil = profile.BoostedUntil()
	}
	return resp, nil
}

// MyItems 所持アイテム一覧を取得
func (s *ShopApplicationService) MyItems(ctx context.Context, req *MyItemsRequest) (*MyItemsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.MyItems")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", req.UserID))

	items, err := s.purchasedRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find purchased items: %w", err)
	}

	dtos := make([]PurchasedItemDTO, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, PurchasedItemDTO{
			ItemID:      p.ItemID(),
			ItemName:    p.ItemName(),
			Quantity:    p.Quantity(),
			PurchasedAt: p.PurchasedAt(),
		})
	}

	return &MyItemsResponse{
		Items: dtos,
		Count: len(dtos),
	}, nil
}

// ProStatus ユーザーのPro・ブースト状態を返す
// 期限切れの判定は読み取り時に行う
func (s *ShopApplicationService) ProStatus(ctx context.Context, req *ProStatusRequest) (*ProStatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.ProStatus")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", req.UserID))

	now := time.Now()
	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			// プロフィール未作成のユーザーは全効果なし
			return &ProStatusResponse{}, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	resp := &ProStatusResponse{
		ProActive:   profile.ProActive(now),
		BoostActive: profile.BoostActive(now),
		VipBadge:    profile.VipBadge(),
	}
	if resp.ProActive {
		resp.ProExpiresAt = profile.ProExpiresAt()
	}
	if resp.BoostActive {
		resp.BoostedUntil = profile.BoostedUntil()
	}
	return resp, nil
}

// MessageLimit ユーザーの1日のメッセージ送信上限と残数を返す
// プロフィール未作成のユーザーは無料ユーザー扱い
func (s *ShopApplicationService) MessageLimit(ctx context.Context, req *MessageLimitRequest) (*MessageLimitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.MessageLimit")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", req.UserID))

	now := time.Now()
	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return &MessageLimitResponse{
				MessageLimit: user.FreeMessageLimit,
				Remaining:    user.FreeMessageLimit,
			}, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	limit := profile.MessageLimit(now)
	sent := profile.MessagesSentToday(now)
	remaining := limit - sent
	if remaining < 0 {
		remaining = 0
	}
	return &MessageLimitResponse{
		IsPro:             profile.ProActive(now),
		MessageLimit:      limit,
		MessagesSentToday: sent,
		Remaining:         remaining,
	}, nil
}

// IncrementMessageCount 今日のメッセージ送信数を1加算する
// 上限に達している場合はuser.ErrMessageLimitReached
func (s *ShopApplicationService) IncrementMessageCount(ctx context.Context, req *IncrementMessageCountRequest) (*IncrementMessageCountResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ShopApplicationService.IncrementMessageCount")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", req.UserID))

	now := time.Now()
	var profile *user.Profile
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var findErr error
		profile, findErr = s.profileRepo.FindByUserID(ctx, req.UserID)
		if findErr != nil {
			if !errors.Is(findErr, user.ErrProfileNotFound) {
				return fmt.Errorf("failed to find profile: %w", findErr)
			}
			profile, findErr = user.NewProfile(req.UserID, now)
			if findErr != nil {
				return findErr
			}
		}

		if incErr := profile.IncrementMessageCount(now); incErr != nil {
			return incErr
		}

		if saveErr := s.profileRepo.Save(ctx, profile); saveErr != nil {
			return fmt.Errorf("failed to save profile: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if !errors.Is(err, user.ErrMessageLimitReached) {
			s.logger.Error(ctx, "Failed to increment message count", err, map[string]interface{}{
				"user_id": req.UserID,
			})
		}
		return nil, err
	}

	sent := profile.MessagesSentToday(now)
	remaining := profile.MessageLimit(now) - sent
	if remaining < 0 {
		remaining = 0
	}
	return &IncrementMessageCountResponse{
		MessagesSentToday: sent,
		Remaining:         remaining,
	}, nil
}

// applyEffect 商品効果をプロフィールに適用する
// 効果のない商品はプロフィールに触らない
func (s *ShopApplicationService) applyEffect(ctx context.Context, userID string, effect shop.EffectType, now time.Time) (*user.Profile, error) {
	if effect == shop.EffectNone || effect == shop.EffectConsumable {
		return nil, nil
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to find profile: %w", err)
		}
		profile, err = user.NewProfile(userID, now)
		if err != nil {
			return nil, err
		}
	}

	switch effect {
	case shop.EffectPro30Days:
		profile.GrantPro(proDuration, now)
	case shop.EffectBoost24Hours:
		profile.GrantBoost(boostDuration, now)
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func toItemDTO(i *shop.ShopItem) ItemDTO {
	return ItemDTO{
		ItemID:       i.ItemID(),
		Name:         i.Name(),
		Price:        i.Price(),
		CurrencyType: i.CurrencyType().String(),
		Category:     i.Category(),
		Emoji:        i.Emoji(),
		Description:  i.Description(),
		Effect:       i.Effect().String(),
	}
}
