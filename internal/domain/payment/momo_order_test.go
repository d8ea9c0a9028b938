package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewOrder(t *testing.T) *MomoOrder {
	t.Helper()
	o, err := NewMomoOrder("MOMO_order1", "req1", "user123", 50000, PurchaseTypeCoin, 500, 0, "coin_500", time.Now())
	require.NoError(t, err)
	return o
}

func TestNewMomoOrder(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		orderID      string
		userID       string
		amount       int64
		purchaseType PurchaseType
		coinAmount   int64
		durationDays int
		wantError    bool
	}{
		{
			name:         "正常系: コインチャージ注文",
			orderID:      "MOMO_order1",
			userID:       "user123",
			amount:       50000,
			purchaseType: PurchaseTypeCoin,
			coinAmount:   500,
		},
		{
			name:         "正常系: Proサブスク注文",
			orderID:      "MOMO_order2",
			userID:       "user123",
			amount:       99000,
			purchaseType: PurchaseTypePro,
			durationDays: 30,
		},
		{
			name:         "異常系: 注文IDが空",
			orderID:      "",
			userID:       "user123",
			amount:       50000,
			purchaseType: PurchaseTypeCoin,
			coinAmount:   500,
			wantError:    true,
		},
		{
			name:         "異常系: 金額がゼロ",
			orderID:      "MOMO_order1",
			userID:       "user123",
			amount:       0,
			purchaseType: PurchaseTypeCoin,
			coinAmount:   500,
			wantError:    true,
		},
		{
			name:         "異常系: コイン注文でコイン数がゼロ",
			orderID:      "MOMO_order1",
			userID:       "user123",
			amount:       50000,
			purchaseType: PurchaseTypeCoin,
			coinAmount:   0,
			wantError:    true,
		},
		{
			name:         "異常系: Pro注文で日数がゼロ",
			orderID:      "MOMO_order1",
			userID:       "user123",
			amount:       99000,
			purchaseType: PurchaseTypePro,
			durationDays: 0,
			wantError:    true,
		},
		{
			name:         "異常系: 無効な購入種別",
			orderID:      "MOMO_order1",
			userID:       "user123",
			amount:       50000,
			purchaseType: PurchaseType("gem"),
			coinAmount:   500,
			wantError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewMomoOrder(tt.orderID, "req1", tt.userID, tt.amount, tt.purchaseType, tt.coinAmount, tt.durationDays, "", now)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, o)
			} else {
				require.NoError(t, err)
				assert.Equal(t, OrderStatusPending, o.Status())
				assert.True(t, o.Pending())
			}
		})
	}
}

func TestMomoOrder_MarkSuccess(t *testing.T) {
	t.Run("正常系: pendingから成功へ", func(t *testing.T) {
		o := mustNewOrder(t)
		now := time.Now()

		err := o.MarkSuccess("momo_trans_9", now)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusSuccess, o.Status())
		assert.Equal(t, "momo_trans_9", o.MomoTransID())
		assert.False(t, o.Pending())
	})

	t.Run("異常系: 成功済みの注文は再確定できない", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.MarkSuccess("momo_trans_9", time.Now()))

		err := o.MarkSuccess("momo_trans_10", time.Now())
		assert.ErrorIs(t, err, ErrOrderAlreadyFinalized)
		assert.Equal(t, "momo_trans_9", o.MomoTransID())
	})

	t.Run("異常系: 失敗済みの注文は成功にできない", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.MarkFail("user cancelled", time.Now()))

		err := o.MarkSuccess("momo_trans_9", time.Now())
		assert.ErrorIs(t, err, ErrOrderAlreadyFinalized)
		assert.Equal(t, OrderStatusFailed, o.Status())
	})
}

func TestMomoOrder_MarkFail(t *testing.T) {
	t.Run("正常系: pendingから失敗へ", func(t *testing.T) {
		o := mustNewOrder(t)

		err := o.MarkFail("resultCode=1006", time.Now())
		require.NoError(t, err)
		assert.Equal(t, OrderStatusFailed, o.Status())
		assert.Equal(t, "resultCode=1006", o.FailReason())
	})

	t.Run("異常系: 確定済みの注文は失敗にできない", func(t *testing.T) {
		o := mustNewOrder(t)
		require.NoError(t, o.MarkSuccess("momo_trans_9", time.Now()))

		err := o.MarkFail("late callback", time.Now())
		assert.ErrorIs(t, err, ErrOrderAlreadyFinalized)
	})
}
