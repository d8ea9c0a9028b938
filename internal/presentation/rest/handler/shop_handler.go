package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	shopapp "wallet-server/internal/application/shop"
)

// ShopHandler ショップ関連ハンドラー
type ShopHandler struct {
	shopService *shopapp.ShopApplicationService
}

// NewShopHandler 新しいShopHandlerを作成
func NewShopHandler(shopService *shopapp.ShopApplicationService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

// ListItems 商品一覧取得ハンドラー（認証不要）
// @Summary 商品一覧を取得
// @Description 販売中の商品一覧を取得します
// @Tags shop
// @Accept json
// @Produce json
// @Success 200 {object} ShopItemsResponse "一覧取得成功"
// @Router /api/shop/items [get]
func (h *ShopHandler) ListItems(c echo.Context) error {
	resp, err := h.shopService.ListItems(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]ShopItemModel, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = toShopItemModel(item)
	}

	return c.JSON(http.StatusOK, ShopItemsResponse{
		Items: items,
		Count: resp.Count,
	})
}

// GetItem 商品取得ハンドラー（認証不要）
// @Summary 商品を取得
// @Description 商品IDで商品を取得します
// @Tags shop
// @Accept json
// @Produce json
// @Param item_id path string true "商品ID" example(vip_badge)
// @Success 200 {object} ShopItemResponse "取得成功"
// @Failure 404 {object} ErrorResponse "商品が存在しない"
// @Router /api/shop/items/{item_id} [get]
func (h *ShopHandler) GetItem(c echo.Context) error {
	itemID := c.Param("item_id")
	if itemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_id is required")
	}

	resp, err := h.shopService.GetItem(c.Request().Context(), &shopapp.GetItemRequest{
		ItemID: itemID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ShopItemResponse{Item: toShopItemModel(resp.Item)})
}

// Purchase 購入ハンドラー
// @Summary 商品を購入
// @Description 商品を購入し、効果をアカウントに適用します
// @Tags shop
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body PurchaseRequest true "購入リクエスト"
// @Success 200 {object} PurchaseResponse "購入成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "商品が存在しない"
// @Failure 409 {object} ErrorResponse "残高不足または購入済み"
// @Router /api/shop/purchase [post]
func (h *ShopHandler) Purchase(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody PurchaseRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if reqBody.ItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_id is required")
	}

	resp, err := h.shopService.Purchase(c.Request().Context(), &shopapp.PurchaseRequest{
		UserID: userID,
		ItemID: reqBody.ItemID,
	})
	if err != nil {
		return err
	}

	out := PurchaseResponse{
		ItemID:        resp.ItemID,
		ItemName:      resp.ItemName,
		Price:         resp.Price,
		TransactionID: resp.TransactionID,
		NewBalance:    resp.NewBalance,
	}
	if resp.ProExpiresAt != nil {
		out.ProExpiresAt = resp.ProExpiresAt.Format(time.RFC3339)
	}
	if resp.BoostedUntil != nil {
		out.BoostedUntil = resp.BoostedUntil.Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, out)
}

// MyItems 所持アイテム一覧取得ハンドラー
// @Summary 所持アイテム一覧を取得
// @Description 自分の購入済みアイテムを取得します
// @Tags shop
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} MyItemsResponse "一覧取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/shop/my-items [get]
func (h *ShopHandler) MyItems(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	resp, err := h.shopService.MyItems(c.Request().Context(), &shopapp.MyItemsRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	items := make([]PurchasedItemModel, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = PurchasedItemModel{
			ItemID:      item.ItemID,
			ItemName:    item.ItemName,
			Quantity:    item.Quantity,
			PurchasedAt: item.PurchasedAt.Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, MyItemsResponse{
		Items: items,
		Count: resp.Count,
	})
}

// ProStatus Pro状態取得ハンドラー
// @Summary Pro状態を取得
// @Description 自分のPro・ブースト・VIPバッジの状態を取得します
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} ProStatusResponse "取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/users/me/pro-status [get]
func (h *ShopHandler) ProStatus(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	resp, err := h.shopService.ProStatus(c.Request().Context(), &shopapp.ProStatusRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	out := ProStatusResponse{
		ProActive:   resp.ProActive,
		BoostActive: resp.BoostActive,
		VipBadge:    resp.VipBadge,
	}
	if resp.ProExpiresAt != nil {
		out.ProExpiresAt = resp.ProExpiresAt.Format(time.RFC3339)
	}
	if resp.BoostedUntil != nil {
		out.BoostedUntil = resp.BoostedUntil.Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, out)
}

// MessageLimit メッセージ上限取得ハンドラー
// @Summary メッセージ送信上限を取得
// @Description 自分の1日のメッセージ送信上限と残数を取得します
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} MessageLimitResponse "取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/users/me/message-limit [get]
func (h *ShopHandler) MessageLimit(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	resp, err := h.shopService.MessageLimit(c.Request().Context(), &shopapp.MessageLimitRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageLimitResponse{
		IsPro:             resp.IsPro,
		MessageLimit:      resp.MessageLimit,
		MessagesSentToday: resp.MessagesSentToday,
		Remaining:         resp.Remaining,
	})
}

// IncrementMessageCount メッセージ送信数加算ハンドラー
// @Summary メッセージ送信数を加算
// @Description 今日のメッセージ送信数を1加算します
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} IncrementMessageCountResponse "加算成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 429 {object} ErrorResponse "1日の送信上限に到達"
// @Router /api/users/me/increment-message-count [post]
func (h *ShopHandler) IncrementMessageCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	resp, err := h.shopService.IncrementMessageCount(c.Request().Context(), &shopapp.IncrementMessageCountRequest{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, IncrementMessageCountResponse{
		MessagesSentToday: resp.MessagesSentToday,
		Remaining:         resp.Remaining,
	})
}

func toShopItemModel(i shopapp.ItemDTO) ShopItemModel {
	return ShopItemModel{
		ItemID:       i.ItemID,
		Name:         i.Name,
		Price:        i.Price,
		CurrencyType: i.CurrencyType,
		Category:     i.Category,
		Emoji:        i.Emoji,
		Description:  i.Description,
		Effect:       i.Effect,
	}
}
