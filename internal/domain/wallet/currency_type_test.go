package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrencyType(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      CurrencyType
		wantError bool
	}{
		{
			name:  "正常系: coins",
			input: "coins",
			want:  CurrencyTypeCoins,
		},
		{
			name:  "正常系: banhMi",
			input: "banhMi",
			want:  CurrencyTypeBanhMi,
		},
		{
			name:      "異常系: 未知の通貨タイプ",
			input:     "gems",
			wantError: true,
		},
		{
			name:      "異常系: 空文字",
			input:     "",
			wantError: true,
		},
		{
			name:      "異常系: 大文字小文字の不一致",
			input:     "Coins",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCurrencyType(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencyType_Valid(t *testing.T) {
	assert.True(t, CurrencyTypeCoins.Valid())
	assert.True(t, CurrencyTypeBanhMi.Valid())
	assert.False(t, CurrencyType("gems").Valid())
	assert.False(t, CurrencyType("").Valid())
}
