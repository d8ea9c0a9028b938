package mysql

import (
	"context"
	"database/sql"
)

// executor プールとトランザクションに共通するクエリ実行インターフェース
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txContextKey struct{}

// withTx トランザクションをコンテキストに紐付ける
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// conn コンテキストにトランザクションが紐付いていればそれを、
// なければ接続プールを返す。リポジトリの全クエリはここを経由する
func (db *DB) conn(ctx context.Context) executor {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}
