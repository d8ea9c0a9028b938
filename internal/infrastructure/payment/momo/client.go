// Package momo MoMo決済ゲートウェイとの連携クライアント
package momo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wallet-server/internal/infrastructure/config"
)

const (
	// requestType MoMoウォレット即時決済
	requestType = "captureWallet"
	partnerName = "WalletServer"
	storeID     = "WalletServerStore"
	lang        = "vi"
)

// CreatePaymentRequest 決済作成リクエスト
type CreatePaymentRequest struct {
	OrderID   string
	RequestID string
	Amount    int64
	OrderInfo string
	ExtraData string
}

// CreatePaymentResponse 決済作成レスポンス
type CreatePaymentResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
	Deeplink     string `json:"deeplink"`
	QRCodeURL    string `json:"qrCodeUrl"`
}

// CallbackPayload MoMoからのIPN通知ペイロード
type CallbackPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// Client MoMo決済ゲートウェイクライアント
type Client struct {
	cfg        *config.MomoConfig
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient Clientのコンストラクタ
func NewClient(cfg *config.MomoConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer: otel.Tracer("payment.momo"),
	}
}

// CreatePayment 決済作成APIを呼び出す
// 署名対象フィールドはアルファベット順の固定並びで連結する
func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	ctx, span := c.tracer.Start(ctx, "MomoClient.CreatePayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("momo.order_id", req.OrderID),
		attribute.Int64("momo.amount", req.Amount),
	)

	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		c.cfg.AccessKey,
		req.Amount,
		req.ExtraData,
		c.cfg.IPNURL,
		req.OrderID,
		req.OrderInfo,
		c.cfg.PartnerCode,
		c.cfg.RedirectURL,
		req.RequestID,
		requestType,
	)

	body := map[string]interface{}{
		"partnerCode": c.cfg.PartnerCode,
		"partnerName": partnerName,
		"storeId":     storeID,
		"requestId":   req.RequestID,
		"amount":      req.Amount,
		"orderId":     req.OrderID,
		"orderInfo":   req.OrderInfo,
		"redirectUrl": c.cfg.RedirectURL,
		"ipnUrl":      c.cfg.IPNURL,
		"lang":        lang,
		"extraData":   req.ExtraData,
		"requestType": requestType,
		"signature":   c.sign(rawSignature),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to marshal request")
		return nil, fmt.Errorf("failed to marshal momo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to build request")
		return nil, fmt.Errorf("failed to build momo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "momo request failed")
		return nil, fmt.Errorf("momo request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to read response")
		return nil, fmt.Errorf("failed to read momo response: %w", err)
	}

	var result CreatePaymentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "failed to decode response")
		return nil, fmt.Errorf("failed to decode momo response: %w", err)
	}

	span.SetAttributes(attribute.Int("momo.result_code", result.ResultCode))
	span.SetStatus(otelcodes.Ok, "payment created")
	return &result, nil
}

// VerifyCallbackSignature IPN通知の署名を検証する
// 署名対象の並びは決済作成時と異なる点に注意
func (c *Client) VerifyCallbackSignature(payload *CallbackPayload) bool {
	rawData := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		c.cfg.AccessKey,
		payload.Amount,
		payload.ExtraData,
		payload.Message,
		payload.OrderID,
		payload.OrderInfo,
		payload.OrderType,
		payload.PartnerCode,
		payload.PayType,
		payload.RequestID,
		payload.ResponseTime,
		payload.ResultCode,
		payload.TransID,
	)

	expected := c.sign(rawData)
	return hmac.Equal([]byte(expected), []byte(payload.Signature))
}

// sign HMAC-SHA256署名を16進文字列で返す
func (c *Client) sign(rawData string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(rawData))
	return hex.EncodeToString(mac.Sum(nil))
}
