package gift

import (
	"context"
	"time"
)

// CatalogRepository ギフトカタログのリポジトリ
type CatalogRepository interface {
	// FindActive 有効なギフトの一覧を取得する
	FindActive(ctx context.Context) ([]*Gift, error)
	// FindByID ギフトIDで取得する。見つからない場合はErrGiftNotFound
	FindByID(ctx context.Context, giftID string) (*Gift, error)
}

// ReceiptRepository ギフトレシートのリポジトリ
type ReceiptRepository interface {
	// Create レシートを保存する
	Create(ctx context.Context, r *GiftReceipt) error
	// FindByID レシートIDで取得する。見つからない場合はErrReceiptNotFound
	FindByID(ctx context.Context, receiptID string) (*GiftReceipt, error)
	// FindByToUserID 受信者のレシート一覧を新しい順で取得する
	// statusがnilの場合は全状態を対象とする
	FindByToUserID(ctx context.Context, toUserID string, status *ReceiptStatus, limit int) ([]*GiftReceipt, error)
	// MarkRedeemed 未換金のレシートだけを換金済みに更新する
	// 既に換金済みの場合はErrAlreadyRedeemed
	MarkRedeemed(ctx context.Context, receiptID string, redeemValue int64, redeemedAt time.Time) error
}
