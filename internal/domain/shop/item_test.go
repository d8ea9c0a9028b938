package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-server/internal/domain/wallet"
)

func TestNewShopItem(t *testing.T) {
	tests := []struct {
		name      string
		itemID    string
		itemName  string
		price     int64
		currency  wallet.CurrencyType
		effect    EffectType
		wantError bool
	}{
		{
			name:     "正常系: 効果なしアイテム",
			itemID:   "item_frame",
			itemName: "Khung ảnh vàng",
			price:    200,
			currency: wallet.CurrencyTypeCoins,
			effect:   EffectNone,
		},
		{
			name:     "正常系: Pro付与アイテム",
			itemID:   "vip_badge",
			itemName: "Huy hiệu VIP",
			price:    500,
			currency: wallet.CurrencyTypeCoins,
			effect:   EffectPro30Days,
		},
		{
			name:     "正常系: 消費型アイテム",
			itemID:   "super_like",
			itemName: "Super Like",
			price:    20,
			currency: wallet.CurrencyTypeBanhMi,
			effect:   EffectConsumable,
		},
		{
			name:      "異常系: IDが空",
			itemID:    "",
			itemName:  "Khung ảnh",
			price:     200,
			currency:  wallet.CurrencyTypeCoins,
			effect:    EffectNone,
			wantError: true,
		},
		{
			name:      "異常系: 価格がゼロ",
			itemID:    "item_frame",
			itemName:  "Khung ảnh",
			price:     0,
			currency:  wallet.CurrencyTypeCoins,
			effect:    EffectNone,
			wantError: true,
		},
		{
			name:      "異常系: 無効な効果タイプ",
			itemID:    "item_frame",
			itemName:  "Khung ảnh",
			price:     200,
			currency:  wallet.CurrencyTypeCoins,
			effect:    EffectType("teleport"),
			wantError: true,
		},
		{
			name:      "異常系: 無効な通貨タイプ",
			itemID:    "item_frame",
			itemName:  "Khung ảnh",
			price:     200,
			currency:  wallet.CurrencyType("gems"),
			effect:    EffectNone,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewShopItem(tt.itemID, tt.itemName, tt.price, tt.currency, "decoration", "🖼️", "", tt.effect, true)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.itemID, item.ItemID())
				assert.Equal(t, tt.effect, item.Effect())
			}
		})
	}
}

func TestShopItem_Consumable(t *testing.T) {
	consumable := MustNewShopItem("super_like", "Super Like", 20, wallet.CurrencyTypeBanhMi, "boost", "⭐", "", EffectConsumable, true)
	assert.True(t, consumable.Consumable())

	badge := MustNewShopItem("vip_badge", "Huy hiệu VIP", 500, wallet.CurrencyTypeCoins, "status", "👑", "", EffectPro30Days, true)
	assert.False(t, badge.Consumable())
}

func TestNewPurchasedItem(t *testing.T) {
	now := time.Now()

	t.Run("正常系", func(t *testing.T) {
		p, err := NewPurchasedItem("user123", "vip_badge", "Huy hiệu VIP", 1, now)
		require.NoError(t, err)
		assert.Equal(t, "user123", p.UserID())
		assert.Equal(t, 1, p.Quantity())
	})

	t.Run("異常系: 数量ゼロ", func(t *testing.T) {
		_, err := NewPurchasedItem("user123", "vip_badge", "Huy hiệu VIP", 0, now)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("異常系: ユーザーIDが空", func(t *testing.T) {
		_, err := NewPurchasedItem("", "vip_badge", "Huy hiệu VIP", 1, now)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})
}
