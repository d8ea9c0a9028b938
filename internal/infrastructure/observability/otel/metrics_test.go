package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewMetrics(t *testing.T) {
	// Noopメータープロバイダーを使用
	mp := noop.NewMeterProvider()
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics("test-meter")
	require.NoError(t, err)
	assert.NotNil(t, metrics)

	assert.NotNil(t, metrics.TransactionCount)
	assert.NotNil(t, metrics.WalletBalance)
	assert.NotNil(t, metrics.GiftsSent)
	assert.NotNil(t, metrics.GiftsRedeemed)
	assert.NotNil(t, metrics.ShopPurchases)
	assert.NotNil(t, metrics.MomoCallbacks)
	assert.NotNil(t, metrics.RequestCount)
	assert.NotNil(t, metrics.ResponseTime)
	assert.NotNil(t, metrics.ErrorCount)
}

func TestMetrics_Record(t *testing.T) {
	mp := noop.NewMeterProvider()
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics("test-meter")
	require.NoError(t, err)

	ctx := context.Background()

	// 記録でパニックしないことを確認
	metrics.RecordTransaction(ctx, "topup", "coins")
	metrics.RecordWalletBalance(ctx, "user123", "coins", 1000)
	metrics.RecordGiftSent(ctx, "gift_rose")
	metrics.RecordGiftRedeemed(ctx, "gift_rose")
	metrics.RecordShopPurchase(ctx, "vip_badge", "status")
	metrics.RecordMomoCallback(ctx, "success")
	metrics.RecordRequest(ctx, "GET", "/wallet/balance")
	metrics.RecordResponseTime(ctx, "GET", "/wallet/balance", 0.015)
	metrics.RecordError(ctx, "topup_failed")
}
