package admin

import (
	"time"

	"wallet-server/internal/domain/transaction"
)

// AdjustBalanceRequest 残高調整リクエスト
type AdjustBalanceRequest struct {
	AdminID      string
	UserID       string
	CurrencyType string
	Delta        int64 // 正で加算、負で減算
	Reason       string
}

// AdjustBalanceResponse 残高調整レスポンス
type AdjustBalanceResponse struct {
	TransactionID string
	UserID        string
	CurrencyType  string
	Delta         int64
	NewBalance    int64
}

// GetStatsResponse 統計レスポンス
// 残高合計はサンプリングに基づく推定値
type GetStatsResponse struct {
	TotalUsers         int64
	SampledUsers       int
	TotalCoins         int64
	TotalBanhMi        int64
	DailyTransactions  int
	WeeklyTransactions int
	Estimate           bool
	GeneratedAt        time.Time
}

// ListTransactionsRequest 管理用トランザクション一覧リクエスト
type ListTransactionsRequest struct {
	UserID          string // 空なら全ユーザー横断
	TransactionType string
	Limit           int
}

// ListTransactionsResponse 管理用トランザクション一覧レスポンス
type ListTransactionsResponse struct {
	Transactions []*transaction.Transaction
}

// BanUserRequest ユーザーBANリクエスト
type BanUserRequest struct {
	AdminID string
	UserID  string
	Reason  string
}

// BanUserResponse ユーザーBANレスポンス
type BanUserResponse struct {
	UserID   string
	Banned   bool
	BannedAt time.Time
}

// UnbanUserRequest ユーザーBAN解除リクエスト
type UnbanUserRequest struct {
	AdminID string
	UserID  string
}

// UnbanUserResponse ユーザーBAN解除レスポンス
type UnbanUserResponse struct {
	UserID string
	Banned bool
}
