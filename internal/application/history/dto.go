package history

import "wallet-server/internal/domain/transaction"

// GetTransactionHistoryRequest トランザクション履歴取得リクエスト
type GetTransactionHistoryRequest struct {
	UserID          string
	Limit           int
	Offset          int
	CurrencyType    string // optional: "coins" or "banhMi"
	TransactionType string // optional: "topup", "gift_sent", etc.
	From            string // optional: RFC3339
	To              string // optional: RFC3339
}

// GetTransactionHistoryResponse トランザクション履歴取得レスポンス
type GetTransactionHistoryResponse struct {
	Transactions []*transaction.Transaction
	Limit        int
	Offset       int
}
