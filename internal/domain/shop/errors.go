package shop

import "errors"

var (
	// ErrItemNotFound 商品が見つからないエラー
	ErrItemNotFound = errors.New("shop item not found")
	// ErrItemInactive 販売停止中の商品エラー
	ErrItemInactive = errors.New("shop item is inactive")
	// ErrInvalidItem 不正な商品定義エラー
	ErrInvalidItem = errors.New("invalid shop item")
	// ErrInvalidEffectType 不正な効果タイプエラー
	ErrInvalidEffectType = errors.New("invalid effect type")
	// ErrAlreadyOwned 既に所持している商品エラー
	ErrAlreadyOwned = errors.New("item already owned")
)
