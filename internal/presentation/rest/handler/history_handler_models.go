package handler

// TransactionItem トランザクションアイテム
// @Description トランザクションアイテム
type TransactionItem struct {
	TransactionID   string                 `json:"transaction_id" example:"txn_123"`
	TransactionType string                 `json:"transaction_type" example:"gift_sent"`
	CurrencyType    string                 `json:"currency_type" example:"coins"`
	Amount          int64                  `json:"amount" example:"55"`
	BalanceBefore   int64                  `json:"balance_before" example:"500"`
	BalanceAfter    int64                  `json:"balance_after" example:"445"`
	OrderID         string                 `json:"order_id,omitempty" example:"TR0123456789abcdef"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       string                 `json:"created_at" example:"2026-03-01T12:00:00Z"`
}

// TransactionHistoryResponse トランザクション履歴レスポンス
// @Description トランザクション履歴レスポンス
type TransactionHistoryResponse struct {
	Transactions []TransactionItem `json:"transactions"`
	Limit        int               `json:"limit" example:"50"`
	Offset       int               `json:"offset" example:"0"`
}
