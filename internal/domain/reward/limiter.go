package reward

import (
	"context"
	"errors"
)

// ErrAlreadyClaimed 制限期間内に既に受け取り済みエラー
var ErrAlreadyClaimed = errors.New("reward already claimed")

// Limiter 広告報酬の受け取り回数制限
// Claimは期間内の初回だけ成功し、2回目以降はErrAlreadyClaimedを返す
type Limiter interface {
	Claim(ctx context.Context, userID string) error
}
