package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"wallet-server/internal/infrastructure/config"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
)

func TestAuthApplicationService_GenerateToken(t *testing.T) {
	jwtConfig := &config.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "test-issuer",
		Expiration: 24 * time.Hour,
	}

	newService := func(t *testing.T) *AuthApplicationService {
		t.Helper()
		tracer := otel.Tracer("test")
		logger := otelinfra.NewLogger(tracer)
		return NewAuthApplicationService(jwtConfig, logger)
	}

	t.Run("正常系: トークンを生成", func(t *testing.T) {
		svc := newService(t)

		got, err := svc.GenerateToken(context.Background(), &GenerateTokenRequest{UserID: "user123"})

		require.NoError(t, err)
		assert.NotEmpty(t, got.Token)
		assert.Equal(t, int64(86400), got.ExpiresIn) // 24時間 = 86400秒
		assert.Equal(t, "Bearer", got.TokenType)
	})

	t.Run("正常系: 生成したトークンは検証できる", func(t *testing.T) {
		svc := newService(t)

		got, err := svc.GenerateToken(context.Background(), &GenerateTokenRequest{UserID: "user123"})
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(got.Token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtConfig.Secret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, "user123", claims["user_id"])
		assert.Equal(t, "test-issuer", claims["iss"])
	})

	t.Run("異常系: ユーザーIDが空", func(t *testing.T) {
		svc := newService(t)

		_, err := svc.GenerateToken(context.Background(), &GenerateTokenRequest{UserID: ""})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id is required")
	})
}
