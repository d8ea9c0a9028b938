package user

import "errors"

var (
	// ErrProfileNotFound プロフィールが見つからないエラー
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrInvalidProfile 不正なプロフィールエラー
	ErrInvalidProfile = errors.New("invalid user profile")
	// ErrUserBanned BANされたユーザーエラー
	ErrUserBanned = errors.New("user is banned")
	// ErrMessageLimitReached 1日のメッセージ送信上限に到達したエラー
	ErrMessageLimitReached = errors.New("daily message limit reached")
)
