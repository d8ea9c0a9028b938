package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"wallet-server/internal/domain/shop"
)

func newPurchasedItemRepo(t *testing.T) (*PurchasedItemRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &PurchasedItemRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}
	return repo, mock, func() { db.Close() }
}

func TestPurchasedItemRepository_Add(t *testing.T) {
	repo, mock, closeDB := newPurchasedItemRepo(t)
	defer closeDB()

	now := time.Now()
	p, err := shop.NewPurchasedItem("user123", "vip_badge", "Huy hiệu VIP", 1, now)
	require.NoError(t, err)

	t.Run("正常系: 新規の所持アイテムを登録", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO purchased_items`).
			WithArgs("user123", "vip_badge", "Huy hiệu VIP", 1, now).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Add(context.Background(), p, false)
		assert.NoError(t, err)
	})

	t.Run("異常系: 一意制約違反は所持済みエラー", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO purchased_items`).
			WithArgs("user123", "vip_badge", "Huy hiệu VIP", 1, now).
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := repo.Add(context.Background(), p, false)
		assert.ErrorIs(t, err, shop.ErrAlreadyOwned)
	})

	t.Run("正常系: 消費型は所持数を加算", func(t *testing.T) {
		consumable, err := shop.NewPurchasedItem("user123", "super_like", "Super Like", 1, now)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO purchased_items`).
			WithArgs("user123", "super_like", "Super Like", 1, now).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err = repo.Add(context.Background(), consumable, true)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchasedItemRepository_Exists(t *testing.T) {
	repo, mock, closeDB := newPurchasedItemRepo(t)
	defer closeDB()

	t.Run("正常系: 所持している", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"1"}).AddRow(1)
		mock.ExpectQuery(`SELECT 1`).
			WithArgs("user123", "vip_badge").
			WillReturnRows(rows)

		owned, err := repo.Exists(context.Background(), "user123", "vip_badge")
		require.NoError(t, err)
		assert.True(t, owned)
	})

	t.Run("正常系: 所持していない", func(t *testing.T) {
		mock.ExpectQuery(`SELECT 1`).
			WithArgs("user123", "super_like").
			WillReturnError(sql.ErrNoRows)

		owned, err := repo.Exists(context.Background(), "user123", "super_like")
		require.NoError(t, err)
		assert.False(t, owned)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchasedItemRepository_FindByUserID(t *testing.T) {
	repo, mock, closeDB := newPurchasedItemRepo(t)
	defer closeDB()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "item_id", "item_name", "quantity", "purchased_at"}).
		AddRow("user123", "vip_badge", "Huy hiệu VIP", 1, now).
		AddRow("user123", "super_like", "Super Like", 3, now)
	mock.ExpectQuery(`SELECT user_id, item_id, item_name, quantity, purchased_at`).
		WithArgs("user123").
		WillReturnRows(rows)

	items, err := repo.FindByUserID(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "vip_badge", items[0].ItemID())
	assert.Equal(t, 3, items[1].Quantity())
	assert.NoError(t, mock.ExpectationsWereMet())
}
