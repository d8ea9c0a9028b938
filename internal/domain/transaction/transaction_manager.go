package transaction

import (
	"context"
)

// TransactionManager トランザクション管理インターフェース
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	// fnに渡すコンテキストにはトランザクションが紐付いており、
	// スコープ内のリポジトリ呼び出しは同一トランザクションで実行される
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
