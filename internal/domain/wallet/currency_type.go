package wallet

import (
	"fmt"
)

// CurrencyType 通貨タイプを表す値オブジェクト
type CurrencyType string

const (
	CurrencyTypeCoins  CurrencyType = "coins"  // コイン（有償チャージあり）
	CurrencyTypeBanhMi CurrencyType = "banhMi" // バインミー（アプリ内サブ通貨）
)

// NewCurrencyType 新しいCurrencyTypeを作成
func NewCurrencyType(s string) (CurrencyType, error) {
	switch s {
	case "coins", "banhMi":
		return CurrencyType(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidCurrencyType, s)
	}
}

// String 文字列表現を返す
func (ct CurrencyType) String() string {
	return string(ct)
}

// Valid 有効な通貨タイプかどうかを返す
func (ct CurrencyType) Valid() bool {
	return ct == CurrencyTypeCoins || ct == CurrencyTypeBanhMi
}
