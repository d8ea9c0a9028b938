package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	paymentapp "wallet-server/internal/application/payment"
	"wallet-server/internal/infrastructure/payment/momo"
)

// MomoHandler MoMo決済関連ハンドラー
type MomoHandler struct {
	paymentService *paymentapp.PaymentApplicationService
}

// NewMomoHandler 新しいMomoHandlerを作成
func NewMomoHandler(paymentService *paymentapp.PaymentApplicationService) *MomoHandler {
	return &MomoHandler{
		paymentService: paymentService,
	}
}

// CreatePayment 決済作成ハンドラー
// @Summary MoMo決済を作成
// @Description MoMoの決済リンクを作成し、注文をpendingで保存します
// @Tags momo
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentRequest true "決済作成リクエスト"
// @Success 200 {object} CreatePaymentResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /api/momo/create-payment [post]
func (h *MomoHandler) CreatePayment(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	var reqBody CreatePaymentRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.paymentService.CreatePayment(c.Request().Context(), &paymentapp.CreatePaymentRequest{
		UserID:       userID,
		Amount:       reqBody.Amount,
		OrderInfo:    reqBody.OrderInfo,
		PurchaseType: reqBody.PurchaseType,
		CoinAmount:   reqBody.CoinAmount,
		DurationDays: reqBody.DurationDays,
		PackageID:    reqBody.PackageID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreatePaymentResponse{
		OrderID:   resp.OrderID,
		PayURL:    resp.PayURL,
		Deeplink:  resp.Deeplink,
		QRCodeURL: resp.QRCodeURL,
	})
}

// Callback IPNコールバックハンドラー（認証不要、署名が認証を兼ねる）
// @Summary MoMoのIPN通知を受け取る
// @Description MoMoからの決済結果通知を処理します。署名検証で認証します
// @Tags momo
// @Accept json
// @Produce json
// @Success 200 {object} MomoCallbackResponse "処理成功"
// @Failure 403 {object} ErrorResponse "署名不正"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Router /api/momo/callback [post]
func (h *MomoHandler) Callback(c echo.Context) error {
	var payload momo.CallbackPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid callback payload")
	}

	resp, err := h.paymentService.HandleCallback(c.Request().Context(), &payload)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MomoCallbackResponse{
		OrderID: resp.OrderID,
		Status:  resp.Status,
	})
}

// CheckStatus 決済状態確認ハンドラー
// @Summary 決済状態を確認
// @Description 自分の注文の決済状態を確認します
// @Tags momo
// @Accept json
// @Produce json
// @Security Bearer
// @Param order_id path string true "注文ID" example(TR0123456789abcdef)
// @Success 200 {object} PaymentStatusResponse "確認成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 403 {object} ErrorResponse "注文の所有者でない"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Router /api/momo/orders/{order_id} [get]
func (h *MomoHandler) CheckStatus(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user_id not found in token")
	}

	orderID := c.Param("order_id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}

	resp, err := h.paymentService.CheckStatus(c.Request().Context(), &paymentapp.CheckStatusRequest{
		UserID:  userID,
		OrderID: orderID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PaymentStatusResponse{
		OrderID:      resp.OrderID,
		Status:       resp.Status,
		Amount:       resp.Amount,
		PurchaseType: resp.PurchaseType,
		CoinAmount:   resp.CoinAmount,
		FailReason:   resp.FailReason,
	})
}
