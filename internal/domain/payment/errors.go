package payment

import "errors"

var (
	// ErrOrderNotFound 注文が見つからないエラー
	ErrOrderNotFound = errors.New("momo order not found")
	// ErrInvalidOrder 不正な注文エラー
	ErrInvalidOrder = errors.New("invalid momo order")
	// ErrInvalidPurchaseType 不正な購入種別エラー
	ErrInvalidPurchaseType = errors.New("invalid purchase type")
	// ErrOrderAlreadyFinalized 確定済みの注文への状態変更エラー
	ErrOrderAlreadyFinalized = errors.New("momo order already finalized")
	// ErrNotOrderOwner 注文の所有者でないエラー
	ErrNotOrderOwner = errors.New("not the order owner")
	// ErrInvalidSignature 署名検証失敗エラー
	ErrInvalidSignature = errors.New("invalid momo signature")
)
