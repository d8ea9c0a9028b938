package payment

import (
	"context"
	"time"
)

// OrderRepository MoMo注文のリポジトリ
type OrderRepository interface {
	// Create 注文を保存する
	Create(ctx context.Context, o *MomoOrder) error
	// FindByOrderID 注文IDで取得する。見つからない場合はErrOrderNotFound
	FindByOrderID(ctx context.Context, orderID string) (*MomoOrder, error)
	// MarkSuccess pendingの注文だけを成功に更新する
	// 既に確定済みの場合はErrOrderAlreadyFinalized
	MarkSuccess(ctx context.Context, orderID, momoTransID string, updatedAt time.Time) error
	// MarkFail pendingの注文だけを失敗に更新する
	// 既に確定済みの場合はErrOrderAlreadyFinalized
	MarkFail(ctx context.Context, orderID, reason string, updatedAt time.Time) error
}
