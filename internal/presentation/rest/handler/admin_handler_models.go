package handler

// AdminAdjustRequest 残高調整リクエスト
// @Description 残高調整リクエスト
type AdminAdjustRequest struct {
	CurrencyType string `json:"currency_type,omitempty" example:"coins" enums:"coins,banhMi"`
	Delta        int64  `json:"delta" example:"-100"`
	Reason       string `json:"reason" example:"fraud rollback"`
	AdminID      string `json:"admin_id" example:"admin01"`
}

// AdminAdjustResponse 残高調整レスポンス
// @Description 残高調整レスポンス
type AdminAdjustResponse struct {
	TransactionID string `json:"transaction_id" example:"txn_123"`
	UserID        string `json:"user_id" example:"user123"`
	CurrencyType  string `json:"currency_type" example:"coins"`
	Delta         int64  `json:"delta" example:"-100"`
	NewBalance    int64  `json:"new_balance" example:"400"`
}

// AdminStatsResponse 統計レスポンス
// @Description 統計レスポンス（残高合計はサンプリングに基づく推定値）
type AdminStatsResponse struct {
	TotalUsers         int64  `json:"total_users" example:"15234"`
	SampledUsers       int    `json:"sampled_users" example:"1000"`
	TotalCoins         int64  `json:"total_coins" example:"1234567"`
	TotalBanhMi        int64  `json:"total_banh_mi" example:"98765"`
	DailyTransactions  int    `json:"daily_transactions" example:"420"`
	WeeklyTransactions int    `json:"weekly_transactions" example:"2900"`
	Estimate           bool   `json:"estimate" example:"true"`
	GeneratedAt        string `json:"generated_at" example:"2026-03-01T12:00:00Z"`
}

// AdminBanRequest ユーザーBANリクエスト
// @Description ユーザーBANリクエスト
type AdminBanRequest struct {
	Reason  string `json:"reason" example:"spam"`
	AdminID string `json:"admin_id" example:"admin01"`
}

// AdminBanResponse ユーザーBANレスポンス
// @Description ユーザーBANレスポンス
type AdminBanResponse struct {
	UserID string `json:"user_id" example:"user123"`
	Banned bool   `json:"banned" example:"true"`
}

// AdminUnbanRequest ユーザーBAN解除リクエスト
// @Description ユーザーBAN解除リクエスト
type AdminUnbanRequest struct {
	AdminID string `json:"admin_id" example:"admin01"`
}
