package gift

import (
	"wallet-server/internal/domain/wallet"
)

// Gift ギフトカタログの1品目
// レシートには作成時点のスナップショットとして埋め込まれる
type Gift struct {
	giftID       string
	name         string
	price        int64
	currencyType wallet.CurrencyType
	icon         string
	active       bool
}

// NewGift 新しいGiftを作成
func NewGift(giftID, name string, price int64, currencyType wallet.CurrencyType, icon string, active bool) (*Gift, error) {
	if giftID == "" {
		return nil, ErrInvalidGift
	}
	if name == "" {
		return nil, ErrInvalidGift
	}
	if price <= 0 || price > wallet.MaxAmount {
		return nil, ErrInvalidGift
	}
	if !currencyType.Valid() {
		return nil, wallet.ErrInvalidCurrencyType
	}

	return &Gift{
		giftID:       giftID,
		name:         name,
		price:        price,
		currencyType: currencyType,
		icon:         icon,
		active:       active,
	}, nil
}

// GiftID ギフトIDを取得
func (g *Gift) GiftID() string {
	return g.giftID
}

// Name 名前を取得
func (g *Gift) Name() string {
	return g.name
}

// Price 価格を取得
func (g *Gift) Price() int64 {
	return g.price
}

// CurrencyType 通貨タイプを取得
func (g *Gift) CurrencyType() wallet.CurrencyType {
	return g.currencyType
}

// Icon アイコンを取得
func (g *Gift) Icon() string {
	return g.icon
}

// Active 有効かどうか
func (g *Gift) Active() bool {
	return g.active
}

// MustNewGift テスト用のヘルパー
func MustNewGift(giftID, name string, price int64, currencyType wallet.CurrencyType, icon string, active bool) *Gift {
	g, err := NewGift(giftID, name, price, currencyType, icon, active)
	if err != nil {
		panic(err)
	}
	return g
}
