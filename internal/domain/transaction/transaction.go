package transaction

import (
	"errors"
	"regexp"
	"time"

	"wallet-server/internal/domain/wallet"
)

var (
	// ErrInvalidTransactionID トランザクションIDが無効
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	// ErrInvalidUserID ユーザーIDが無効
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidAmount 金額が無効
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountTooLarge 金額が大きすぎる
	ErrAmountTooLarge = errors.New("amount too large")
	// ErrBalanceOutOfRange 残高が範囲外
	ErrBalanceOutOfRange = errors.New("balance out of range")
)

const (
	// MaxAmount 最大金額 (10兆)
	MaxAmount = 10_000_000_000_000
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
	userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
)

// Transaction 残高変動の監査レコード
// 一度作成された後は更新・削除されない（追記専用）
type Transaction struct {
	transactionID   string
	userID          string
	transactionType TransactionType
	currencyType    wallet.CurrencyType
	amount          int64 // 変動量の絶対値（方向はtransactionTypeが示す）
	balanceBefore   int64
	balanceAfter    int64
	orderID         *string // MoMo注文ID（オプション）
	requester       *string // リクエスト元（管理者IDやサービス名など）
	metadata        map[string]interface{}
	createdAt       time.Time
}

// NewTransaction 新しいTransactionエンティティを作成
func NewTransaction(
	transactionID string,
	userID string,
	transactionType TransactionType,
	currencyType wallet.CurrencyType,
	amount int64,
	balanceBefore int64,
	balanceAfter int64,
	metadata map[string]interface{},
) (*Transaction, error) {
	return NewTransactionWithRequester(
		transactionID,
		userID,
		transactionType,
		currencyType,
		amount,
		balanceBefore,
		balanceAfter,
		nil,
		metadata,
	)
}

// NewTransactionWithRequester 新しいTransactionエンティティを作成（requester指定あり）
func NewTransactionWithRequester(
	transactionID string,
	userID string,
	transactionType TransactionType,
	currencyType wallet.CurrencyType,
	amount int64,
	balanceBefore int64,
	balanceAfter int64,
	requester *string,
	metadata map[string]interface{},
) (*Transaction, error) {
	if !idRegex.MatchString(transactionID) {
		return nil, ErrInvalidTransactionID
	}
	if !userIDRegex.MatchString(userID) {
		return nil, ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > MaxAmount {
		return nil, ErrAmountTooLarge
	}
	if balanceBefore < 0 || balanceBefore > MaxAmount {
		return nil, ErrBalanceOutOfRange
	}
	if balanceAfter < 0 || balanceAfter > MaxAmount {
		return nil, ErrBalanceOutOfRange
	}

	return &Transaction{
		transactionID:   transactionID,
		userID:          userID,
		transactionType: transactionType,
		currencyType:    currencyType,
		amount:          amount,
		balanceBefore:   balanceBefore,
		balanceAfter:    balanceAfter,
		requester:       requester,
		metadata:        metadata,
		createdAt:       time.Now(),
	}, nil
}

// TransactionID トランザクションIDを返す
func (t *Transaction) TransactionID() string {
	return t.transactionID
}

// UserID ユーザーIDを返す
func (t *Transaction) UserID() string {
	return t.userID
}

// TransactionType トランザクションタイプを返す
func (t *Transaction) TransactionType() TransactionType {
	return t.transactionType
}

// CurrencyType 通貨タイプを返す
func (t *Transaction) CurrencyType() wallet.CurrencyType {
	return t.currencyType
}

// Amount 金額を返す
func (t *Transaction) Amount() int64 {
	return t.amount
}

// BalanceBefore 変動前残高を返す
func (t *Transaction) BalanceBefore() int64 {
	return t.balanceBefore
}

// BalanceAfter 変動後残高を返す
func (t *Transaction) BalanceAfter() int64 {
	return t.balanceAfter
}

// OrderID MoMo注文IDを返す
func (t *Transaction) OrderID() *string {
	return t.orderID
}

// SetOrderID MoMo注文IDを設定
func (t *Transaction) SetOrderID(orderID string) {
	t.orderID = &orderID
}

// Requester リクエスト元を返す
func (t *Transaction) Requester() *string {
	return t.requester
}

// Metadata メタデータを返す
func (t *Transaction) Metadata() map[string]interface{} {
	return t.metadata
}

// CreatedAt 作成日時を返す
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// SetCreatedAt 作成日時を設定（リポジトリでの再構築用）
func (t *Transaction) SetCreatedAt(createdAt time.Time) {
	t.createdAt = createdAt
}
