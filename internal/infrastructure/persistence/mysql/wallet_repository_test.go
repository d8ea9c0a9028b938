package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"wallet-server/internal/domain/wallet"
)

func TestWalletRepository_FindByUserIDAndType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &WalletRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}

	tests := []struct {
		name         string
		userID       string
		currencyType wallet.CurrencyType
		setupMock    func()
		want         *wallet.Wallet
		wantError    bool
		errorType    error
	}{
		{
			name:         "正常系: ウォレットが見つかる",
			userID:       "user123",
			currencyType: wallet.CurrencyTypeCoins,
			setupMock: func() {
				rows := sqlmock.NewRows([]string{"user_id", "currency_type", "balance", "version"}).
					AddRow("user123", "coins", 1000, 1)
				mock.ExpectQuery(`SELECT user_id, currency_type, balance, version`).
					WithArgs("user123", "coins").
					WillReturnRows(rows)
			},
			want:      wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 1000, 1),
			wantError: false,
		},
		{
			name:         "異常系: ウォレットが見つからない",
			userID:       "user123",
			currencyType: wallet.CurrencyTypeBanhMi,
			setupMock: func() {
				mock.ExpectQuery(`SELECT user_id, currency_type, balance, version`).
					WithArgs("user123", "banhMi").
					WillReturnError(sql.ErrNoRows)
			},
			want:      nil,
			wantError: true,
			errorType: wallet.ErrWalletNotFound,
		},
		{
			name:         "異常系: DBエラー",
			userID:       "user123",
			currencyType: wallet.CurrencyTypeCoins,
			setupMock: func() {
				mock.ExpectQuery(`SELECT user_id, currency_type, balance, version`).
					WithArgs("user123", "coins").
					WillReturnError(sql.ErrConnDone)
			},
			want:      nil,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			ctx := context.Background()
			got, err := repo.FindByUserIDAndType(ctx, tt.userID, tt.currencyType)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.Equal(t, tt.errorType, err)
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, tt.want.UserID(), got.UserID())
				assert.Equal(t, tt.want.CurrencyType(), got.CurrencyType())
				assert.Equal(t, tt.want.Balance(), got.Balance())
				assert.Equal(t, tt.want.Version(), got.Version())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWalletRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &WalletRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}

	tests := []struct {
		name      string
		wallet    *wallet.Wallet
		setupMock func(w *wallet.Wallet)
		wantError bool
		errorType error
	}{
		{
			name:   "正常系: ウォレットを保存",
			wallet: wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 1000, 1),
			setupMock: func(w *wallet.Wallet) {
				mock.ExpectExec(`UPDATE wallets`).
					WithArgs(w.Balance(), w.Version(), "user123", "coins", w.Version()-1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantError: false,
		},
		{
			name:   "異常系: バージョン競合",
			wallet: wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 1000, 2),
			setupMock: func(w *wallet.Wallet) {
				mock.ExpectExec(`UPDATE wallets`).
					WithArgs(w.Balance(), w.Version(), "user123", "coins", w.Version()-1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantError: true,
			errorType: wallet.ErrVersionConflict,
		},
		{
			name:   "異常系: DBエラー",
			wallet: wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 1000, 1),
			setupMock: func(w *wallet.Wallet) {
				mock.ExpectExec(`UPDATE wallets`).
					WithArgs(w.Balance(), w.Version(), "user123", "coins", w.Version()-1).
					WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock(tt.wallet)
			ctx := context.Background()
			err := repo.Save(ctx, tt.wallet)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorType != nil {
					assert.ErrorIs(t, err, tt.errorType)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWalletRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &WalletRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}

	w := wallet.MustNewWallet("user123", wallet.CurrencyTypeCoins, 0, 0)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("user123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO wallets`).
		WithArgs("user123", "coins", int64(0), 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
