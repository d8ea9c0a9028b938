package handler

// ErrorResponse エラーレスポンス
// @Description エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error" example:"insufficient_balance"`
	Message string `json:"message" example:"insufficient balance"`
	Code    string `json:"code,omitempty" example:"insufficient_balance"`
}

// BalanceResponse 残高レスポンス
// @Description 残高レスポンス
type BalanceResponse struct {
	UserID   string           `json:"user_id" example:"user123"`
	Balances map[string]int64 `json:"balances"`
}

// TopupRequest チャージリクエスト
// @Description チャージリクエスト
type TopupRequest struct {
	Amount       int64                  `json:"amount" example:"100"`
	CurrencyType string                 `json:"currency_type,omitempty" example:"coins" enums:"coins,banhMi"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// TopupResponse チャージレスポンス
// @Description チャージレスポンス
type TopupResponse struct {
	TransactionID string `json:"transaction_id" example:"txn_123"`
	NewBalance    int64  `json:"new_balance" example:"600"`
}

// SpendRequest 消費リクエスト
// @Description 消費リクエスト
type SpendRequest struct {
	Amount       int64                  `json:"amount" example:"50"`
	CurrencyType string                 `json:"currency_type,omitempty" example:"coins" enums:"coins,banhMi"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// SpendResponse 消費レスポンス
// @Description 消費レスポンス
type SpendResponse struct {
	TransactionID string `json:"transaction_id" example:"txn_456"`
	NewBalance    int64  `json:"new_balance" example:"550"`
}

// RewardRequest 広告リワードリクエスト
// @Description 広告リワードリクエスト
type RewardRequest struct {
	AdID string `json:"ad_id" example:"ad_unit_01"`
}

// RewardResponse 広告リワードレスポンス
// @Description 広告リワードレスポンス
type RewardResponse struct {
	TransactionID string `json:"transaction_id" example:"txn_789"`
	Amount        int64  `json:"amount" example:"10"`
	NewBalance    int64  `json:"new_balance" example:"560"`
	NextClaimAt   string `json:"next_claim_at" example:"2026-03-02T12:00:00Z"`
}
