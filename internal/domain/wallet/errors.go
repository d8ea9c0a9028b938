package wallet

import "errors"

var (
	// ErrInsufficientBalance 残高不足エラー
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount 無効な金額エラー
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOutOfRange 金額が許容範囲外エラー（API境界の上下限）
	ErrAmountOutOfRange = errors.New("amount out of range")
	// ErrInvalidCurrencyType 無効な通貨タイプエラー
	ErrInvalidCurrencyType = errors.New("invalid currency type")
	// ErrWalletNotFound ウォレットが見つからないエラー
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrVersionConflict 楽観的ロックの競合エラー
	ErrVersionConflict = errors.New("version conflict")
)
