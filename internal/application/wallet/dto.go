package wallet

import "time"

// GetBalanceRequest 残高取得リクエスト
type GetBalanceRequest struct {
	UserID string
}

// GetBalanceResponse 残高取得レスポンス
type GetBalanceResponse struct {
	UserID   string
	Balances map[string]int64 // "coins" => 1000, "banhMi" => 50
}

// TopupRequest チャージリクエスト
type TopupRequest struct {
	UserID       string
	CurrencyType string // 省略時は "coins"
	Amount       int64
	Metadata     map[string]interface{}
}

// TopupResponse チャージレスポンス
type TopupResponse struct {
	TransactionID string
	Amount        int64
	NewBalance    int64
}

// SpendRequest 消費リクエスト
type SpendRequest struct {
	UserID       string
	CurrencyType string // 省略時は "coins"
	Amount       int64
	Metadata     map[string]interface{}
}

// SpendResponse 消費レスポンス
type SpendResponse struct {
	TransactionID string
	Amount        int64
	NewBalance    int64
}

// RewardRequest 広告視聴リワードリクエスト
type RewardRequest struct {
	UserID   string
	AdID     string
	Metadata map[string]interface{}
}

// RewardResponse 広告視聴リワードレスポンス
type RewardResponse struct {
	TransactionID string
	Amount        int64
	NewBalance    int64
	NextClaimAt   time.Time
}
