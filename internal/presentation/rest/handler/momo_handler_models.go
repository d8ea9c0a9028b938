package handler

// CreatePaymentRequest MoMo決済作成リクエスト
// @Description MoMo決済作成リクエスト
type CreatePaymentRequest struct {
	Amount       int64  `json:"amount" example:"50000"`
	OrderInfo    string `json:"order_info,omitempty" example:"Nạp 500 xu"`
	PurchaseType string `json:"purchase_type" example:"coin" enums:"coin,pro"`
	CoinAmount   int64  `json:"coin_amount,omitempty" example:"500"`
	DurationDays int    `json:"duration_days,omitempty" example:"30"`
	PackageID    string `json:"package_id,omitempty" example:"coin_500"`
}

// CreatePaymentResponse MoMo決済作成レスポンス
// @Description MoMo決済作成レスポンス
type CreatePaymentResponse struct {
	OrderID   string `json:"order_id" example:"TR0123456789abcdef"`
	PayURL    string `json:"pay_url" example:"https://payment.momo.vn/pay/x"`
	Deeplink  string `json:"deeplink,omitempty" example:"momo://pay/x"`
	QRCodeURL string `json:"qr_code_url,omitempty" example:"https://payment.momo.vn/qr/x"`
}

// MomoCallbackResponse IPNコールバック応答
// @Description IPNコールバック応答
type MomoCallbackResponse struct {
	OrderID string `json:"order_id" example:"TR0123456789abcdef"`
	Status  string `json:"status" example:"success"`
}

// PaymentStatusResponse 決済状態レスポンス
// @Description 決済状態レスポンス
type PaymentStatusResponse struct {
	OrderID      string `json:"order_id" example:"TR0123456789abcdef"`
	Status       string `json:"status" example:"pending" enums:"pending,success,failed"`
	Amount       int64  `json:"amount" example:"50000"`
	PurchaseType string `json:"purchase_type" example:"coin"`
	CoinAmount   int64  `json:"coin_amount,omitempty" example:"500"`
	FailReason   string `json:"fail_reason,omitempty" example:"Transaction denied by user"`
}
