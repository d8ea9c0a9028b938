package momo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-server/internal/infrastructure/config"
)

func testConfig(endpoint string) *config.MomoConfig {
	return &config.MomoConfig{
		PartnerCode: "PARTNER123",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		Endpoint:    endpoint,
		RedirectURL: "https://example.com/redirect",
		IPNURL:      "https://example.com/ipn",
		Timeout:     5 * time.Second,
	}
}

func signWith(secret, rawData string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(rawData))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_CreatePayment(t *testing.T) {
	t.Run("正常系: 署名付きリクエストを送信しレスポンスを返す", func(t *testing.T) {
		var received map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			_ = json.NewEncoder(w).Encode(CreatePaymentResponse{
				PartnerCode: "PARTNER123",
				OrderID:     "TR100",
				RequestID:   "TR100",
				Amount:      50000,
				ResultCode:  0,
				Message:     "Success",
				PayURL:      "https://test-payment.momo.vn/pay/TR100",
				Deeplink:    "momo://pay/TR100",
				QRCodeURL:   "https://test-payment.momo.vn/qr/TR100",
			})
		}))
		defer server.Close()

		cfg := testConfig(server.URL)
		client := NewClient(cfg)

		resp, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
			OrderID:   "TR100",
			RequestID: "TR100",
			Amount:    50000,
			OrderInfo: "Nap coin",
			ExtraData: "",
		})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.ResultCode)
		assert.Equal(t, "https://test-payment.momo.vn/pay/TR100", resp.PayURL)

		// 署名はアルファベット順連結文字列のHMAC-SHA256
		rawSignature := fmt.Sprintf(
			"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
			cfg.AccessKey, int64(50000), "", cfg.IPNURL, "TR100", "Nap coin", cfg.PartnerCode, cfg.RedirectURL, "TR100", "captureWallet",
		)
		assert.Equal(t, signWith(cfg.SecretKey, rawSignature), received["signature"])
		assert.Equal(t, "captureWallet", received["requestType"])
		assert.Equal(t, float64(50000), received["amount"])
	})

	t.Run("異常系: 接続エラーはエラーを返す", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		client := NewClient(cfg)

		_, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
			OrderID:   "TR101",
			RequestID: "TR101",
			Amount:    10000,
			OrderInfo: "Nap coin",
		})

		assert.Error(t, err)
	})
}

func TestClient_VerifyCallbackSignature(t *testing.T) {
	cfg := testConfig("https://test-payment.momo.vn/v2/gateway/api/create")
	client := NewClient(cfg)

	payload := &CallbackPayload{
		PartnerCode:  "PARTNER123",
		OrderID:      "TR100",
		RequestID:    "TR100",
		Amount:       50000,
		OrderInfo:    "Nap coin",
		OrderType:    "momo_wallet",
		TransID:      999888777,
		ResultCode:   0,
		Message:      "Success",
		PayType:      "qr",
		ResponseTime: 1700000000000,
		ExtraData:    "",
	}

	rawData := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.AccessKey, payload.Amount, payload.ExtraData, payload.Message, payload.OrderID, payload.OrderInfo,
		payload.OrderType, payload.PartnerCode, payload.PayType, payload.RequestID,
		payload.ResponseTime, payload.ResultCode, payload.TransID,
	)

	t.Run("正常系: 正しい署名は検証に成功する", func(t *testing.T) {
		payload.Signature = signWith(cfg.SecretKey, rawData)
		assert.True(t, client.VerifyCallbackSignature(payload))
	})

	t.Run("異常系: 改ざんされた署名は検証に失敗する", func(t *testing.T) {
		payload.Signature = signWith("wrong-secret", rawData)
		assert.False(t, client.VerifyCallbackSignature(payload))
	})

	t.Run("異常系: 金額が改ざんされた場合は検証に失敗する", func(t *testing.T) {
		payload.Signature = signWith(cfg.SecretKey, rawData)
		tampered := *payload
		tampered.Amount = 1
		assert.False(t, client.VerifyCallbackSignature(&tampered))
	})
}
