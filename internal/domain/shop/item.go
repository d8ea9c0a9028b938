package shop

import (
	"wallet-server/internal/domain/wallet"
)

// EffectType 購入時にアカウントへ適用される効果
type EffectType string

const (
	// EffectNone 効果なし（観賞用アイテム等）
	EffectNone EffectType = "none"
	// EffectPro30Days Proステータスを30日間付与
	EffectPro30Days EffectType = "pro_30d"
	// EffectBoost24Hours プロフィールを24時間ブースト
	EffectBoost24Hours EffectType = "boost_24h"
	// EffectConsumable 消費型。所持数カウンタを加算し、重複所持チェックを行わない
	EffectConsumable EffectType = "consumable"
)

// NewEffectType 新しいEffectTypeを作成
func NewEffectType(s string) (EffectType, error) {
	switch s {
	case "none", "pro_30d", "boost_24h", "consumable":
		return EffectType(s), nil
	default:
		return "", ErrInvalidEffectType
	}
}

// String 文字列表現を返す
func (e EffectType) String() string {
	return string(e)
}

// ShopItem ショップの商品
type ShopItem struct {
	itemID       string
	name         string
	price        int64
	currencyType wallet.CurrencyType
	category     string
	emoji        string
	description  string
	effect       EffectType
	active       bool
}

// NewShopItem 新しいShopItemを作成
func NewShopItem(itemID, name string, price int64, currencyType wallet.CurrencyType, category, emoji, description string, effect EffectType, active bool) (*ShopItem, error) {
	if itemID == "" || name == "" {
		return nil, ErrInvalidItem
	}
	if price <= 0 || price > wallet.MaxAmount {
		return nil, ErrInvalidItem
	}
	if !currencyType.Valid() {
		return nil, wallet.ErrInvalidCurrencyType
	}
	if _, err := NewEffectType(effect.String()); err != nil {
		return nil, err
	}

	return &ShopItem{
		itemID:       itemID,
		name:         name,
		price:        price,
		currencyType: currencyType,
		category:     category,
		emoji:        emoji,
		description:  description,
		effect:       effect,
		active:       active,
	}, nil
}

// ItemID 商品IDを取得
func (i *ShopItem) ItemID() string {
	return i.itemID
}

// Name 名前を取得
func (i *ShopItem) Name() string {
	return i.name
}

// Price 価格を取得
func (i *ShopItem) Price() int64 {
	return i.price
}

// CurrencyType 通貨タイプを取得
func (i *ShopItem) CurrencyType() wallet.CurrencyType {
	return i.currencyType
}

// Category カテゴリを取得
func (i *ShopItem) Category() string {
	return i.category
}

// Emoji 絵文字を取得
func (i *ShopItem) Emoji() string {
	return i.emoji
}

// Description 説明を取得
func (i *ShopItem) Description() string {
	return i.description
}

// Effect 購入効果を取得
func (i *ShopItem) Effect() EffectType {
	return i.effect
}

// Active 販売中かどうか
func (i *ShopItem) Active() bool {
	return i.active
}

// Consumable 消費型かどうか。消費型は重複所持チェックの対象外
func (i *ShopItem) Consumable() bool {
	return i.effect == EffectConsumable
}

// MustNewShopItem テスト用のヘルパー
func MustNewShopItem(itemID, name string, price int64, currencyType wallet.CurrencyType, category, emoji, description string, effect EffectType, active bool) *ShopItem {
	i, err := NewShopItem(itemID, name, price, currencyType, category, emoji, description, effect, active)
	if err != nil {
		panic(err)
	}
	return i
}
