package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 取引数
	TransactionCount metric.Int64Counter

	// ウォレット残高の分布
	WalletBalance metric.Int64Gauge

	// ギフト送信数
	GiftsSent metric.Int64Counter

	// ギフト換金数
	GiftsRedeemed metric.Int64Counter

	// ショップ購入数
	ShopPurchases metric.Int64Counter

	// MoMoコールバック数
	MomoCallbacks metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	transactionCount, err := meter.Int64Counter(
		"transactions_total",
		metric.WithDescription("Total number of ledger transactions"),
	)
	if err != nil {
		return nil, err
	}

	walletBalance, err := meter.Int64Gauge(
		"wallet_balance",
		metric.WithDescription("Wallet balance"),
	)
	if err != nil {
		return nil, err
	}

	giftsSent, err := meter.Int64Counter(
		"gifts_sent_total",
		metric.WithDescription("Total number of gifts sent"),
	)
	if err != nil {
		return nil, err
	}

	giftsRedeemed, err := meter.Int64Counter(
		"gifts_redeemed_total",
		metric.WithDescription("Total number of gifts redeemed"),
	)
	if err != nil {
		return nil, err
	}

	shopPurchases, err := meter.Int64Counter(
		"shop_purchases_total",
		metric.WithDescription("Total number of shop purchases"),
	)
	if err != nil {
		return nil, err
	}

	momoCallbacks, err := meter.Int64Counter(
		"momo_callbacks_total",
		metric.WithDescription("Total number of MoMo IPN callbacks"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TransactionCount: transactionCount,
		WalletBalance:    walletBalance,
		GiftsSent:        giftsSent,
		GiftsRedeemed:    giftsRedeemed,
		ShopPurchases:    shopPurchases,
		MomoCallbacks:    momoCallbacks,
		RequestCount:     requestCount,
		ResponseTime:     responseTime,
		ErrorCount:       errorCount,
	}, nil
}

// RecordTransaction 取引を記録
func (m *Metrics) RecordTransaction(ctx context.Context, transactionType, currencyType string) {
	m.TransactionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("transaction_type", transactionType),
			attribute.String("currency_type", currencyType),
		),
	)
}

// RecordWalletBalance ウォレット残高を記録
func (m *Metrics) RecordWalletBalance(ctx context.Context, userID, currencyType string, balance int64) {
	m.WalletBalance.Record(ctx, balance,
		metric.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("currency_type", currencyType),
		),
	)
}

// RecordGiftSent ギフト送信を記録
func (m *Metrics) RecordGiftSent(ctx context.Context, giftID string) {
	m.GiftsSent.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("gift_id", giftID),
		),
	)
}

// RecordGiftRedeemed ギフト換金を記録
func (m *Metrics) RecordGiftRedeemed(ctx context.Context, giftID string) {
	m.GiftsRedeemed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("gift_id", giftID),
		),
	)
}

// RecordShopPurchase ショップ購入を記録
func (m *Metrics) RecordShopPurchase(ctx context.Context, itemID, category string) {
	m.ShopPurchases.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("item_id", itemID),
			attribute.String("category", category),
		),
	)
}

// RecordMomoCallback MoMoコールバックを記録
func (m *Metrics) RecordMomoCallback(ctx context.Context, result string) {
	m.MomoCallbacks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("result", result),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
