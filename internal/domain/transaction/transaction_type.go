package transaction

import (
	"fmt"
)

// TransactionType トランザクションタイプを表す値オブジェクト
type TransactionType string

const (
	TransactionTypeTopup           TransactionType = "topup"            // 直接チャージ（加算）
	TransactionTypeSpend           TransactionType = "spend"            // 直接消費（減算）
	TransactionTypeReward          TransactionType = "reward"           // 広告視聴リワード（加算）
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment" // 管理者による手動調整（加減算）
	TransactionTypeGiftSent        TransactionType = "gift_sent"        // ギフト送信（減算）
	TransactionTypeGiftRedeemed    TransactionType = "gift_redeemed"    // ギフト換金（加算）
	TransactionTypePurchase        TransactionType = "purchase"         // ショップ購入（減算）
	TransactionTypeMomoTopup       TransactionType = "momo_topup"       // MoMo決済によるチャージ（加算）
)

// NewTransactionType 新しいTransactionTypeを作成
func NewTransactionType(s string) (TransactionType, error) {
	switch s {
	case "topup", "spend", "reward", "admin_adjustment",
		"gift_sent", "gift_redeemed", "purchase", "momo_topup":
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
}

// String 文字列表現を返す
func (tt TransactionType) String() string {
	return string(tt)
}

// IsCredit 残高を増やすタイプかどうかを返す
func (tt TransactionType) IsCredit() bool {
	switch tt {
	case TransactionTypeTopup, TransactionTypeReward,
		TransactionTypeGiftRedeemed, TransactionTypeMomoTopup:
		return true
	default:
		return false
	}
}

// IsDebit 残高を減らすタイプかどうかを返す
func (tt TransactionType) IsDebit() bool {
	switch tt {
	case TransactionTypeSpend, TransactionTypeGiftSent, TransactionTypePurchase:
		return true
	default:
		return false
	}
}
