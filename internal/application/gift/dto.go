package gift

import "time"

// GiftDTO カタログ上のギフト
type GiftDTO struct {
	GiftID       string
	Name         string
	Price        int64
	CurrencyType string
	Icon         string
}

// GetCatalogResponse カタログ取得レスポンス
type GetCatalogResponse struct {
	Gifts []GiftDTO
	Count int
}

// SendGiftRequest ギフト送信リクエスト
type SendGiftRequest struct {
	FromUserID string
	FromName   string
	ToUserID   string
	RoomID     string
	GiftID     string
}

// SendGiftResponse ギフト送信レスポンス
type SendGiftResponse struct {
	ReceiptID     string
	TransactionID string
	Gift          GiftDTO
	NewBalance    int64
}

// ListReceivedRequest 受信ギフト一覧リクエスト
type ListReceivedRequest struct {
	UserID string
	Status string // "unread" | "read"、空文字は全件
	Limit  int    // 省略時は50、最大1000
}

// ReceiptDTO ギフトレシート
type ReceiptDTO struct {
	ReceiptID   string
	FromUserID  string
	FromName    string
	RoomID      string
	Gift        GiftDTO
	Status      string
	Redeemed    bool
	RedeemValue *int64
	RedeemedAt  *time.Time
	CreatedAt   time.Time
}

// ListReceivedResponse 受信ギフト一覧レスポンス
type ListReceivedResponse struct {
	Receipts []ReceiptDTO
	Count    int
}

// RedeemGiftRequest ギフト換金リクエスト
type RedeemGiftRequest struct {
	UserID    string
	ReceiptID string
	Rate      float64 // 省略時は1.0
}

// RedeemGiftResponse ギフト換金レスポンス
type RedeemGiftResponse struct {
	ReceiptID     string
	TransactionID string
	RedeemValue   int64
	NewBalance    int64
}

// RewardGiftRequest 広告視聴によるギフト抽選リクエスト
type RewardGiftRequest struct {
	UserID string
	AdID   string
}

// RewardGiftResponse 広告視聴によるギフト抽選レスポンス
type RewardGiftResponse struct {
	ReceiptID string
	Gift      GiftDTO
}
