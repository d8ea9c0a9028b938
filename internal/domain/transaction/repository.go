package transaction

import (
	"context"
	"time"
)

// HistoryFilter 履歴取得時の絞り込み条件
type HistoryFilter struct {
	TransactionType *TransactionType // nilの場合は全タイプ
	From            *time.Time       // nilの場合は下限なし
	To              *time.Time       // nilの場合は上限なし
}

// TransactionRepository トランザクションリポジトリインターフェース
// 追記専用: 更新・削除の操作は存在しない
type TransactionRepository interface {
	// Append トランザクションを追記
	Append(ctx context.Context, transaction *Transaction) error

	// FindByTransactionID トランザクションIDでトランザクションを取得
	FindByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)

	// FindByUserID ユーザーIDでトランザクション一覧を取得（新しい順、絞り込み対応）
	FindByUserID(ctx context.Context, userID string, filter HistoryFilter, limit, offset int) ([]*Transaction, error)

	// FindByOrderID MoMo注文IDでトランザクションを取得
	FindByOrderID(ctx context.Context, orderID string) (*Transaction, error)

	// FindRecent 全ユーザー横断で直近のトランザクション一覧を取得（新しい順、管理API用）
	FindRecent(ctx context.Context, filter HistoryFilter, limit int) ([]*Transaction, error)
}
