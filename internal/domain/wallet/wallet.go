package wallet

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidUserID ユーザーIDが無効
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrBalanceOutOfRange 残高が範囲外
	ErrBalanceOutOfRange = errors.New("balance out of range")
	// ErrAmountTooLarge 金額が大きすぎる
	ErrAmountTooLarge = errors.New("amount too large")
)

const (
	// MaxAmount 最大金額 (10兆)
	MaxAmount = 10_000_000_000_000
)

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// Wallet ウォレットエンティティ
// (userID, currencyType) ごとに1つの残高を保持する
type Wallet struct {
	userID       string
	currencyType CurrencyType
	balance      int64 // 整数値（小数点なし）、マイナス値は不許可
	version      int   // 楽観的ロック用
}

// NewWallet 新しいWalletエンティティを作成
func NewWallet(userID string, currencyType CurrencyType, balance int64, version int) (*Wallet, error) {
	if !userIDRegex.MatchString(userID) {
		return nil, ErrInvalidUserID
	}
	if balance < 0 || balance > MaxAmount {
		return nil, ErrBalanceOutOfRange
	}
	return &Wallet{
		userID:       userID,
		currencyType: currencyType,
		balance:      balance,
		version:      version,
	}, nil
}

// UserID ユーザーIDを返す
func (w *Wallet) UserID() string {
	return w.userID
}

// CurrencyType 通貨タイプを返す
func (w *Wallet) CurrencyType() CurrencyType {
	return w.currencyType
}

// Balance 残高を返す
func (w *Wallet) Balance() int64 {
	return w.balance
}

// Version バージョンを返す（楽観的ロック用）
func (w *Wallet) Version() int {
	return w.version
}

// Credit 残高を加算する
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > MaxAmount {
		return ErrAmountTooLarge
	}
	// オーバーフローチェック
	if w.balance > MaxAmount-amount {
		return ErrBalanceOutOfRange
	}
	w.balance += amount
	w.version++
	return nil
}

// Debit 残高を減算する
// 残高不足の場合はErrInsufficientBalanceを返し、状態は変化しない
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > MaxAmount {
		return ErrAmountTooLarge
	}
	if w.balance < amount {
		return ErrInsufficientBalance
	}
	w.balance -= amount
	w.version++
	return nil
}

// MustNewWallet テスト用ヘルパー: NewWalletを呼び出し、エラーが発生した場合はpanicする
func MustNewWallet(userID string, currencyType CurrencyType, balance int64, version int) *Wallet {
	w, err := NewWallet(userID, currencyType, balance, version)
	if err != nil {
		panic(err)
	}
	return w
}
