package shop

import "time"

// PurchasedItem ユーザーの所持アイテム
// 非消費型は (userID, itemID) につき1行。消費型はquantityを加算する
type PurchasedItem struct {
	userID      string
	itemID      string
	itemName    string
	quantity    int
	purchasedAt time.Time
}

// NewPurchasedItem 新しいPurchasedItemを作成
func NewPurchasedItem(userID, itemID, itemName string, quantity int, purchasedAt time.Time) (*PurchasedItem, error) {
	if userID == "" || itemID == "" {
		return nil, ErrInvalidItem
	}
	if quantity <= 0 {
		return nil, ErrInvalidItem
	}

	return &PurchasedItem{
		userID:      userID,
		itemID:      itemID,
		itemName:    itemName,
		quantity:    quantity,
		purchasedAt: purchasedAt,
	}, nil
}

// UserID ユーザーIDを取得
func (p *PurchasedItem) UserID() string {
	return p.userID
}

// ItemID 商品IDを取得
func (p *PurchasedItem) ItemID() string {
	return p.itemID
}

// ItemName 購入時点の商品名を取得
func (p *PurchasedItem) ItemName() string {
	return p.itemName
}

// Quantity 所持数を取得
func (p *PurchasedItem) Quantity() int {
	return p.quantity
}

// PurchasedAt 初回購入日時を取得
func (p *PurchasedItem) PurchasedAt() time.Time {
	return p.purchasedAt
}
