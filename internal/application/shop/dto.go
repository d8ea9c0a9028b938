package shop

import "time"

// ItemDTO ショップの商品
type ItemDTO struct {
	ItemID       string
	Name         string
	Price        int64
	CurrencyType string
	Category     string
	Emoji        string
	Description  string
	Effect       string
}

// ListItemsResponse 商品一覧レスポンス
type ListItemsResponse struct {
	Items []ItemDTO
	Count int
}

// GetItemRequest 商品取得リクエスト
type GetItemRequest struct {
	ItemID string
}

// GetItemResponse 商品取得レスポンス
type GetItemResponse struct {
	Item ItemDTO
}

// PurchaseRequest 購入リクエスト
type PurchaseRequest struct {
	UserID string
	ItemID string
}

// PurchaseResponse 購入レスポンス
type PurchaseResponse struct {
	ItemID        string
	ItemName      string
	Price         int64
	TransactionID string
	NewBalance    int64
	ProExpiresAt  *time.Time
	BoostedUntil  *time.Time
}

// MyItemsRequest 所持アイテム一覧リクエスト
type MyItemsRequest struct {
	UserID string
}

// PurchasedItemDTO 所持アイテム
type PurchasedItemDTO struct {
	ItemID      string
	ItemName    string
	Quantity    int
	PurchasedAt time.Time
}

// MyItemsResponse 所持アイテム一覧レスポンス
type MyItemsResponse struct {
	Items []PurchasedItemDTO
	Count int
}

// ProStatusRequest Pro状態取得リクエスト
type ProStatusRequest struct {
	UserID string
}

// ProStatusResponse Pro状態取得レスポンス
type ProStatusResponse struct {
	ProActive    bool
	ProExpiresAt *time.Time
	BoostActive  bool
	BoostedUntil *time.Time
	VipBadge     bool
}

// MessageLimitRequest メッセージ上限取得リクエスト
type MessageLimitRequest struct {
	UserID string
}

// MessageLimitResponse メッセージ上限取得レスポンス
type MessageLimitResponse struct {
	IsPro             bool
	MessageLimit      int
	MessagesSentToday int
	Remaining         int
}

// IncrementMessageCountRequest メッセージ送信数加算リクエスト
type IncrementMessageCountRequest struct {
	UserID string
}

// IncrementMessageCountResponse メッセージ送信数加算レスポンス
type IncrementMessageCountResponse struct {
	MessagesSentToday int
	Remaining         int
}
