package gift

import "errors"

var (
	// ErrGiftNotFound ギフトが見つからないエラー
	ErrGiftNotFound = errors.New("gift not found")
	// ErrGiftInactive 無効化されたギフトエラー
	ErrGiftInactive = errors.New("gift is inactive")
	// ErrInvalidGift 不正なギフト定義エラー
	ErrInvalidGift = errors.New("invalid gift")
	// ErrReceiptNotFound レシートが見つからないエラー
	ErrReceiptNotFound = errors.New("gift receipt not found")
	// ErrInvalidReceipt 不正なレシートエラー
	ErrInvalidReceipt = errors.New("invalid gift receipt")
	// ErrInvalidReceiptStatus 不正なレシート状態エラー
	ErrInvalidReceiptStatus = errors.New("invalid receipt status")
	// ErrNotReceiptOwner レシートの所有者でないエラー
	ErrNotReceiptOwner = errors.New("not the receipt owner")
	// ErrAlreadyRedeemed 換金済みエラー
	ErrAlreadyRedeemed = errors.New("gift already redeemed")
	// ErrInvalidRedeemRate 不正な換金レートエラー
	ErrInvalidRedeemRate = errors.New("invalid redeem rate")
	// ErrInvalidRedeemValue 不正な換金額エラー
	ErrInvalidRedeemValue = errors.New("invalid redeem value")
)
