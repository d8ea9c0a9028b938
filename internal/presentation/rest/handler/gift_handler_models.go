package handler

// GiftItem カタログ上のギフト
// @Description カタログ上のギフト
type GiftItem struct {
	GiftID       string `json:"gift_id" example:"rose"`
	Name         string `json:"name" example:"Hoa hồng"`
	Price        int64  `json:"price" example:"55"`
	CurrencyType string `json:"currency_type" example:"coins"`
	Icon         string `json:"icon" example:"🌹"`
}

// GiftCatalogResponse ギフトカタログレスポンス
// @Description ギフトカタログレスポンス
type GiftCatalogResponse struct {
	Gifts []GiftItem `json:"gifts"`
	Count int        `json:"count" example:"12"`
}

// SendGiftRequest ギフト送信リクエスト
// @Description ギフト送信リクエスト
type SendGiftRequest struct {
	ToUserID string `json:"to_user_id" example:"user456"`
	RoomID   string `json:"room_id" example:"room_789"`
	GiftID   string `json:"gift_id" example:"rose"`
	FromName string `json:"from_name,omitempty" example:"Minh"`
}

// SendGiftResponse ギフト送信レスポンス
// @Description ギフト送信レスポンス
type SendGiftResponse struct {
	ReceiptID     string   `json:"receipt_id" example:"rcpt_123"`
	TransactionID string   `json:"transaction_id" example:"txn_123"`
	Gift          GiftItem `json:"gift"`
	NewBalance    int64    `json:"new_balance" example:"445"`
}

// ReceiptItem 受信ギフト
// @Description 受信ギフト
type ReceiptItem struct {
	ReceiptID   string   `json:"receipt_id" example:"rcpt_123"`
	FromUserID  string   `json:"from_user_id" example:"user123"`
	FromName    string   `json:"from_name" example:"Minh"`
	RoomID      string   `json:"room_id,omitempty" example:"room_789"`
	Gift        GiftItem `json:"gift"`
	Status      string   `json:"status" example:"unread"`
	Redeemed    bool     `json:"redeemed" example:"false"`
	RedeemValue *int64   `json:"redeem_value,omitempty" example:"38"`
	RedeemedAt  string   `json:"redeemed_at,omitempty" example:"2026-03-01T12:00:00Z"`
	CreatedAt   string   `json:"created_at" example:"2026-03-01T10:00:00Z"`
}

// ReceivedGiftsResponse 受信ギフト一覧レスポンス
// @Description 受信ギフト一覧レスポンス
type ReceivedGiftsResponse struct {
	Receipts []ReceiptItem `json:"receipts"`
	Count    int           `json:"count" example:"3"`
}

// RedeemGiftRequest ギフト換金リクエスト
// @Description ギフト換金リクエスト
type RedeemGiftRequest struct {
	Rate float64 `json:"rate,omitempty" example:"0.7"`
}

// RedeemGiftResponse ギフト換金レスポンス
// @Description ギフト換金レスポンス
type RedeemGiftResponse struct {
	ReceiptID     string `json:"receipt_id" example:"rcpt_123"`
	TransactionID string `json:"transaction_id" example:"txn_456"`
	RedeemValue   int64  `json:"redeem_value" example:"38"`
	NewBalance    int64  `json:"new_balance" example:"88"`
}

// RewardGiftRequest 広告視聴によるギフト抽選リクエスト
// @Description 広告視聴によるギフト抽選リクエスト
type RewardGiftRequest struct {
	AdID string `json:"ad_id" example:"ad_unit_01"`
}

// RewardGiftResponse 広告視聴によるギフト抽選レスポンス
// @Description 広告視聴によるギフト抽選レスポンス
type RewardGiftResponse struct {
	ReceiptID string   `json:"receipt_id" example:"rcpt_789"`
	Gift      GiftItem `json:"gift"`
}
