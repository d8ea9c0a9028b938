package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_GrantPro(t *testing.T) {
	now := time.Now()

	t.Run("正常系: 初回付与は現在から30日", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		assert.False(t, p.ProActive(now))

		p.GrantPro(30*24*time.Hour, now)
		assert.True(t, p.ProActive(now))
		assert.True(t, p.VipBadge())
		require.NotNil(t, p.ProExpiresAt())
		assert.Equal(t, now.Add(30*24*time.Hour), *p.ProExpiresAt())
	})

	t.Run("正常系: 有効期間中の再付与は期限から延長", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)

		p.GrantPro(30*24*time.Hour, now)
		p.GrantPro(30*24*time.Hour, now.Add(10*24*time.Hour))

		assert.Equal(t, now.Add(60*24*time.Hour), *p.ProExpiresAt())
	})

	t.Run("正常系: 期限切れ後の再付与は現在から", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)

		p.GrantPro(30*24*time.Hour, now)
		later := now.Add(45 * 24 * time.Hour)
		assert.False(t, p.ProActive(later))

		p.GrantPro(30*24*time.Hour, later)
		assert.Equal(t, later.Add(30*24*time.Hour), *p.ProExpiresAt())
	})
}

func TestProfile_GrantBoost(t *testing.T) {
	now := time.Now()
	p, err := NewProfile("user123", now)
	require.NoError(t, err)

	assert.False(t, p.BoostActive(now))
	p.GrantBoost(24*time.Hour, now)
	assert.True(t, p.BoostActive(now))
	assert.False(t, p.BoostActive(now.Add(25*time.Hour)))
}

func TestProfile_BanUnban(t *testing.T) {
	now := time.Now()
	p, err := NewProfile("user123", now)
	require.NoError(t, err)

	p.Ban("fraudulent topups", "admin1", now)
	assert.True(t, p.Banned())
	assert.Equal(t, "fraudulent topups", p.BanReason())
	assert.Equal(t, "admin1", p.BannedBy())
	require.NotNil(t, p.BannedAt())

	p.Unban(now.Add(time.Hour))
	assert.False(t, p.Banned())
	assert.Empty(t, p.BanReason())
	assert.Nil(t, p.BannedAt())
}

func TestNewProfile_Validation(t *testing.T) {
	_, err := NewProfile("", time.Now())
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfile_MessageLimit(t *testing.T) {
	now := time.Now()

	t.Run("正常系: 無料ユーザーは50通", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		assert.Equal(t, FreeMessageLimit, p.MessageLimit(now))
	})

	t.Run("正常系: Proユーザーは500通", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		p.GrantPro(30*24*time.Hour, now)
		assert.Equal(t, ProMessageLimit, p.MessageLimit(now))
	})

	t.Run("正常系: Pro期限切れ後は50通に戻る", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		p.GrantPro(30*24*time.Hour, now)
		assert.Equal(t, FreeMessageLimit, p.MessageLimit(now.Add(31*24*time.Hour)))
	})
}

func TestProfile_IncrementMessageCount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("正常系: 送信ごとに今日の送信数が増える", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		assert.Equal(t, 0, p.MessagesSentToday(now))

		require.NoError(t, p.IncrementMessageCount(now))
		require.NoError(t, p.IncrementMessageCount(now.Add(time.Minute)))
		assert.Equal(t, 2, p.MessagesSentToday(now.Add(time.Minute)))
	})

	t.Run("正常系: 日付が変わると送信数はリセットされる", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		require.NoError(t, p.IncrementMessageCount(now))

		nextDay := time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)
		assert.Equal(t, 0, p.MessagesSentToday(nextDay))

		require.NoError(t, p.IncrementMessageCount(nextDay))
		assert.Equal(t, 1, p.MessagesSentToday(nextDay))
	})

	t.Run("異常系: 上限到達後はErrMessageLimitReached", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		for i := 0; i < FreeMessageLimit; i++ {
			require.NoError(t, p.IncrementMessageCount(now))
		}

		err = p.IncrementMessageCount(now)
		assert.ErrorIs(t, err, ErrMessageLimitReached)
		assert.Equal(t, FreeMessageLimit, p.MessagesSentToday(now))
	})

	t.Run("正常系: Proなら無料の上限を超えて送信できる", func(t *testing.T) {
		p, err := NewProfile("user123", now)
		require.NoError(t, err)
		p.GrantPro(30*24*time.Hour, now)
		for i := 0; i < FreeMessageLimit; i++ {
			require.NoError(t, p.IncrementMessageCount(now))
		}

		assert.NoError(t, p.IncrementMessageCount(now))
		assert.Equal(t, FreeMessageLimit+1, p.MessagesSentToday(now))
	})
}
