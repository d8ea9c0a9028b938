package shop

import "context"

// ItemRepository ショップ商品のリポジトリ
type ItemRepository interface {
	// FindActive 販売中の商品一覧を取得する
	FindActive(ctx context.Context) ([]*ShopItem, error)
	// FindByID 商品IDで取得する。見つからない場合はErrItemNotFound
	FindByID(ctx context.Context, itemID string) (*ShopItem, error)
}

// PurchasedItemRepository 所持アイテムのリポジトリ
type PurchasedItemRepository interface {
	// Add 所持アイテムを登録する
	// 非消費型で既に同じ (userID, itemID) が存在する場合はErrAlreadyOwned。
	// 消費型は所持数を加算する
	Add(ctx context.Context, p *PurchasedItem, consumable bool) error
	// Exists 所持しているかどうかを返す
	Exists(ctx context.Context, userID, itemID string) (bool, error)
	// FindByUserID ユーザーの所持アイテム一覧を取得する
	FindByUserID(ctx context.Context, userID string) ([]*PurchasedItem, error)
}
