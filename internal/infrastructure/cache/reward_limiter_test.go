package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"wallet-server/internal/domain/reward"
)

func TestRedisRewardLimiter_Claim(t *testing.T) {
	interval := 24 * time.Hour

	t.Run("正常系: 初回受取は成功する", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX("reward:claim:user123", `.+`, interval).SetVal(true)

		limiter := NewRedisRewardLimiter(client, interval)
		err := limiter.Claim(context.Background(), "user123")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: 受取間隔内の再受取はErrAlreadyClaimed", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX("reward:claim:user123", `.+`, interval).SetVal(false)

		limiter := NewRedisRewardLimiter(client, interval)
		err := limiter.Claim(context.Background(), "user123")

		assert.ErrorIs(t, err, reward.ErrAlreadyClaimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: Redisエラーはそのまま伝播する", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX("reward:claim:user123", `.+`, interval).SetErr(errors.New("connection refused"))

		limiter := NewRedisRewardLimiter(client, interval)
		err := limiter.Claim(context.Background(), "user123")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, reward.ErrAlreadyClaimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
