package wallet

import (
	"context"
)

// WalletRepository ウォレットリポジトリインターフェース
type WalletRepository interface {
	// FindByUserIDAndType ユーザーIDと通貨タイプでウォレットを取得
	FindByUserIDAndType(ctx context.Context, userID string, currencyType CurrencyType) (*Wallet, error)

	// Save ウォレットを保存（更新、楽観的ロック対応）
	// バージョンが一致しない場合はErrVersionConflictを返す
	Save(ctx context.Context, wallet *Wallet) error

	// Create 新しいウォレットを作成
	Create(ctx context.Context, wallet *Wallet) error
}
