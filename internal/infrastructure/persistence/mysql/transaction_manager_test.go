package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-server/internal/domain/wallet"
)

func TestTransactionManager_WithTransaction(t *testing.T) {
	t.Run("正常系: コミットされる", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		tm := NewTransactionManager(&DB{DB: db})
		err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("正常系: fnのコンテキストにトランザクションが紐付く", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		wrapped := &DB{DB: db}
		tm := NewTransactionManager(wrapped)
		err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			// スコープ内ではプールではなくトランザクションに解決される
			_, isTx := wrapped.conn(ctx).(*sql.Tx)
			assert.True(t, isTx)
			return nil
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())

		// スコープ外のコンテキストはプールに解決される
		_, isTx := wrapped.conn(context.Background()).(*sql.Tx)
		assert.False(t, isTx)
	})

	t.Run("異常系: エラー時はロールバックされる", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tm := NewTransactionManager(&DB{DB: db})
		wantErr := errors.New("boom")
		err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			return wantErr
		})

		assert.ErrorIs(t, err, wantErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: スコープ内の書き込みはロールバック対象になる", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE wallets").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		wrapped := &DB{DB: db}
		tm := NewTransactionManager(wrapped)
		repo := NewWalletRepository(wrapped)

		wantErr := errors.New("append failure")
		err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			w := wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 1000, 2)
			if err := repo.Save(ctx, w); err != nil {
				return err
			}
			// 後続の書き込みが失敗した場合、先行するSaveも巻き戻る
			return wantErr
		})

		assert.ErrorIs(t, err, wantErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: パニック時はロールバックして再パニック", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tm := NewTransactionManager(&DB{DB: db})
		assert.Panics(t, func() {
			_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
