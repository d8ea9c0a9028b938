package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	giftapp "wallet-server/internal/application/gift"
)

// GiftHandler ギフト関連ハンドラー
type GiftHandler struct {
	giftService *giftapp.GiftApplicationService
}

// NewGiftHandler 新しいGiftHandlerを作成
func NewGiftHandler(giftService *giftapp.GiftApplicationService) *GiftHandler {
	return &GiftHandler{
		giftService: giftService,
	}
}

// GetCatalog ギフトカタログ取得ハンドラー（認証不要）
// @Summary ギフトカタログを取得
// @Description 販売中のギフト一覧を取得します
// @Tags gift
// @Accept json
// @Produce json
// @Success 200 {object} GiftCatalogResponse "カタログ取得成功"
// @Router /api/gifts [get]
func (h *GiftHandler) GetCatalog(c echo.Context) error {
	resp, err := h.giftService.GetCatalog(c.Request().Context())
	if err != nil {
		return err
	}

	gifts := make([]GiftItem, len(resp.Gifts))
	for i, g := range resp.Gifts {
		gifts[i] = toGiftItem(g)
	}

	return c.JSON(http.StatusOK, GiftCatalogResponse{
		Gifts: gifts,
		Count: resp.Count,
	})
}

// Send ギフト送信ハンドラー
// @Summary ギフトを送る
// @Description 指定したユーザーにギフトを送り、代金を自分の残高から差し引きます
// @Tags gift
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SendGiftRequest true "ギフト送信リクエスト"
// @Success 200 {object} SendGiftResponse "ギフト送信成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "ギフトが存在しない"
// @Failure 409 {object} ErrorResponse "残高不足"
// @Router /api/gifts/send [post]
func (h *GiftHandler) Send(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody SendGiftRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if reqBody.ToUserID == "" || reqBody.GiftID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to_user_id and gift_id are required")
	}

	resp, err := h.giftService.Send(c.Request().Context(), &giftapp.SendGiftRequest{
		FromUserID: userID,
		FromName:   reqBody.FromName,
		ToUserID:   reqBody.ToUserID,
		RoomID:     reqBody.RoomID,
		GiftID:     reqBody.GiftID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SendGiftResponse{
		ReceiptID:     resp.ReceiptID,
		TransactionID: resp.TransactionID,
		Gift:          toGiftItem(resp.Gift),
		NewBalance:    resp.NewBalance,
	})
}

// ListReceived 受信ギフト一覧取得ハンドラー
// @Summary 受け取ったギフト一覧を取得
// @Description 自分宛てのギフトレシートを取得します
// @Tags gift
// @Accept json
// @Produce json
// @Security Bearer
// @Param status query string false "ステータスでフィルタ（unread/read）" example(unread)
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 1000)" default(50)
// @Success 200 {object} ReceivedGiftsResponse "一覧取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/gifts/received [get]
func (h *GiftHandler) ListReceived(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}

	resp, err := h.giftService.ListReceived(c.Request().Context(), &giftapp.ListReceivedRequest{
		UserID: userID,
		Status: c.QueryParam("status"),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	receipts := make([]ReceiptItem, len(resp.Receipts))
	for i, r := range resp.Receipts {
		item := ReceiptItem{
			ReceiptID:   r.ReceiptID,
			FromUserID:  r.FromUserID,
			FromName:    r.FromName,
			RoomID:      r.RoomID,
			Gift:        toGiftItem(r.Gift),
			Status:      r.Status,
			Redeemed:    r.Redeemed,
			RedeemValue: r.RedeemValue,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		}
		if r.RedeemedAt != nil {
			item.RedeemedAt = r.RedeemedAt.Format(time.RFC3339)
		}
		receipts[i] = item
	}

	return c.JSON(http.StatusOK, ReceivedGiftsResponse{
		Receipts: receipts,
		Count:    resp.Count,
	})
}

// Redeem ギフト換金ハンドラー
// @Summary ギフトを換金する
// @Description 受け取ったギフトをコインに換金します（1回のみ）
// @Tags gift
// @Accept json
// @Produce json
// @Security Bearer
// @Param receipt_id path string true "レシートID" example(rcpt_123)
// @Param request body RedeemGiftRequest true "換金リクエスト"
// @Success 200 {object} RedeemGiftResponse "換金成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 403 {object} ErrorResponse "受取人でない"
// @Failure 409 {object} ErrorResponse "換金済み"
// @Router /api/gifts/{receipt_id}/redeem [post]
func (h *GiftHandler) Redeem(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	receiptID := c.Param("receipt_id")
	if receiptID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "receipt_id is required")
	}

	var reqBody RedeemGiftRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.giftService.Redeem(c.Request().Context(), &giftapp.RedeemGiftRequest{
		UserID:    userID,
		ReceiptID: receiptID,
		Rate:      reqBody.Rate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RedeemGiftResponse{
		ReceiptID:     resp.ReceiptID,
		TransactionID: resp.TransactionID,
		RedeemValue:   resp.RedeemValue,
		NewBalance:    resp.NewBalance,
	})
}

// Reward 広告視聴ギフト抽選ハンドラー
// @Summary 広告視聴でギフトを受け取る
// @Description 広告視聴の報酬としてランダムなギフトを受け取ります（24時間に1回）
// @Tags gift
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body RewardGiftRequest true "抽選リクエスト"
// @Success 200 {object} RewardGiftResponse "抽選成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 429 {object} ErrorResponse "クールダウン中"
// @Router /api/gifts/reward [post]
func (h *GiftHandler) Reward(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody RewardGiftRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.giftService.RewardGift(c.Request().Context(), &giftapp.RewardGiftRequest{
		UserID: userID,
		AdID:   reqBody.AdID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RewardGiftResponse{
		ReceiptID: resp.ReceiptID,
		Gift:      toGiftItem(resp.Gift),
	})
}

func toGiftItem(g giftapp.GiftDTO) GiftItem {
	return GiftItem{
		GiftID:       g.GiftID,
		Name:         g.Name,
		Price:        g.Price,
		CurrencyType: g.CurrencyType,
		Icon:         g.Icon,
	}
}
