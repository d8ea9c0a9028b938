package handler

// ShopItemModel ショップの商品
// @Description ショップの商品
type ShopItemModel struct {
	ItemID       string `json:"item_id" example:"vip_badge"`
	Name         string `json:"name" example:"Huy hiệu VIP"`
	Price        int64  `json:"price" example:"500"`
	CurrencyType string `json:"currency_type" example:"coins"`
	Category     string `json:"category" example:"badge"`
	Emoji        string `json:"emoji" example:"👑"`
	Description  string `json:"description,omitempty" example:"Mở khóa Pro 30 ngày"`
	Effect       string `json:"effect" example:"pro_30d"`
}

// ShopItemsResponse 商品一覧レスポンス
// @Description 商品一覧レスポンス
type ShopItemsResponse struct {
	Items []ShopItemModel `json:"items"`
	Count int             `json:"count" example:"4"`
}

// ShopItemResponse 商品取得レスポンス
// @Description 商品取得レスポンス
type ShopItemResponse struct {
	Item ShopItemModel `json:"item"`
}

// PurchaseRequest 購入リクエスト
// @Description 購入リクエスト
type PurchaseRequest struct {
	ItemID string `json:"item_id" example:"vip_badge"`
}

// PurchaseResponse 購入レスポンス
// @Description 購入レスポンス
type PurchaseResponse struct {
	ItemID        string `json:"item_id" example:"vip_badge"`
	ItemName      string `json:"item_name" example:"Huy hiệu VIP"`
	Price         int64  `json:"price" example:"500"`
	TransactionID string `json:"transaction_id" example:"txn_123"`
	NewBalance    int64  `json:"new_balance" example:"4500"`
	ProExpiresAt  string `json:"pro_expires_at,omitempty" example:"2026-03-31T12:00:00Z"`
	BoostedUntil  string `json:"boosted_until,omitempty" example:"2026-03-02T12:00:00Z"`
}

// PurchasedItemModel 所持アイテム
// @Description 所持アイテム
type PurchasedItemModel struct {
	ItemID      string `json:"item_id" example:"super_like_pack"`
	ItemName    string `json:"item_name" example:"Gói Super Like"`
	Quantity    int    `json:"quantity" example:"2"`
	PurchasedAt string `json:"purchased_at" example:"2026-03-01T12:00:00Z"`
}

// MyItemsResponse 所持アイテム一覧レスポンス
// @Description 所持アイテム一覧レスポンス
type MyItemsResponse struct {
	Items []PurchasedItemModel `json:"items"`
	Count int                  `json:"count" example:"2"`
}

// MessageLimitResponse メッセージ上限レスポンス
// @Description メッセージ上限レスポンス
type MessageLimitResponse struct {
	IsPro             bool `json:"is_pro" example:"false"`
	MessageLimit      int  `json:"message_limit" example:"50"`
	MessagesSentToday int  `json:"messages_sent_today" example:"12"`
	Remaining         int  `json:"remaining" example:"38"`
}

// IncrementMessageCountResponse メッセージ送信数加算レスポンス
// @Description メッセージ送信数加算レスポンス
type IncrementMessageCountResponse struct {
	MessagesSentToday int `json:"messages_sent_today" example:"13"`
	Remaining         int `json:"remaining" example:"37"`
}

// ProStatusResponse Pro状態レスポンス
// @Description Pro状態レスポンス
type ProStatusResponse struct {
	ProActive    bool   `json:"pro_active" example:"true"`
	ProExpiresAt string `json:"pro_expires_at,omitempty" example:"2026-03-31T12:00:00Z"`
	BoostActive  bool   `json:"boost_active" example:"false"`
	BoostedUntil string `json:"boosted_until,omitempty" example:"2026-03-02T12:00:00Z"`
	VipBadge     bool   `json:"vip_badge" example:"true"`
}
