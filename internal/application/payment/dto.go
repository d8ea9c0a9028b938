package payment

// CreatePaymentRequest MoMo決済作成リクエスト
type CreatePaymentRequest struct {
	UserID       string
	Amount       int64 // VND
	OrderInfo    string
	PurchaseType string // "coin" | "pro"
	CoinAmount   int64  // purchaseType=coinのとき必須
	DurationDays int    // purchaseType=proのとき必須
	PackageID    string
}

// CreatePaymentResponse MoMo決済作成レスポンス
type CreatePaymentResponse struct {
	OrderID   string
	PayURL    string
	Deeplink  string
	QRCodeURL string
}

// HandleCallbackResponse IPNコールバック処理結果
type HandleCallbackResponse struct {
	OrderID          string
	Status           string
	AlreadyProcessed bool
}

// CheckStatusRequest 決済状態確認リクエスト
type CheckStatusRequest struct {
	UserID  string
	OrderID string
}

// CheckStatusResponse 決済状態確認レスポンス
type CheckStatusResponse struct {
	OrderID      string
	Status       string
	Amount       int64
	PurchaseType string
	CoinAmount   int64
	FailReason   string
}
