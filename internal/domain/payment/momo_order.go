package payment

import "time"

// OrderStatus MoMo注文の状態
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusFailed  OrderStatus = "failed"
)

// String 文字列表現を返す
func (s OrderStatus) String() string {
	return string(s)
}

// PurchaseType 購入種別
type PurchaseType string

const (
	// PurchaseTypeCoin コインチャージ
	PurchaseTypeCoin PurchaseType = "coin"
	// PurchaseTypePro Proサブスクリプション
	PurchaseTypePro PurchaseType = "pro"
)

// NewPurchaseType 新しいPurchaseTypeを作成
func NewPurchaseType(s string) (PurchaseType, error) {
	switch s {
	case "coin", "pro":
		return PurchaseType(s), nil
	default:
		return "", ErrInvalidPurchaseType
	}
}

// String 文字列表現を返す
func (p PurchaseType) String() string {
	return string(p)
}

// MomoOrder MoMo決済の注文
// 状態はpendingからsuccessかfailedへ一方向にのみ遷移する
type MomoOrder struct {
	orderID      string
	requestID    string
	userID       string
	amount       int64 // VND
	purchaseType PurchaseType
	coinAmount   int64
	durationDays int
	packageID    string
	status       OrderStatus
	momoTransID  string
	payURL       string
	deeplink     string
	qrCodeURL    string
	failReason   string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewMomoOrder 新しいMomoOrderをpending状態で作成
func NewMomoOrder(orderID, requestID, userID string, amount int64, purchaseType PurchaseType, coinAmount int64, durationDays int, packageID string, createdAt time.Time) (*MomoOrder, error) {
	if orderID == "" || requestID == "" || userID == "" {
		return nil, ErrInvalidOrder
	}
	if amount <= 0 {
		return nil, ErrInvalidOrder
	}
	if _, err := NewPurchaseType(purchaseType.String()); err != nil {
		return nil, err
	}
	if purchaseType == PurchaseTypeCoin && coinAmount <= 0 {
		return nil, ErrInvalidOrder
	}
	if purchaseType == PurchaseTypePro && durationDays <= 0 {
		return nil, ErrInvalidOrder
	}

	return &MomoOrder{
		orderID:      orderID,
		requestID:    requestID,
		userID:       userID,
		amount:       amount,
		purchaseType: purchaseType,
		coinAmount:   coinAmount,
		durationDays: durationDays,
		packageID:    packageID,
		status:       OrderStatusPending,
		createdAt:    createdAt,
		updatedAt:    createdAt,
	}, nil
}

// ReconstructMomoOrder 永続化層からの復元
func ReconstructMomoOrder(
	orderID, requestID, userID string,
	amount int64,
	purchaseType PurchaseType,
	coinAmount int64,
	durationDays int,
	packageID string,
	status OrderStatus,
	momoTransID, payURL, deeplink, qrCodeURL, failReason string,
	createdAt, updatedAt time.Time,
) *MomoOrder {
	return &MomoOrder{
		orderID:      orderID,
		requestID:    requestID,
		userID:       userID,
		amount:       amount,
		purchaseType: purchaseType,
		coinAmount:   coinAmount,
		durationDays: durationDays,
		packageID:    packageID,
		status:       status,
		momoTransID:  momoTransID,
		payURL:       payURL,
		deeplink:     deeplink,
		qrCodeURL:    qrCodeURL,
		failReason:   failReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// OrderID 注文IDを取得
func (o *MomoOrder) OrderID() string {
	return o.orderID
}

// RequestID MoMoリクエストIDを取得
func (o *MomoOrder) RequestID() string {
	return o.requestID
}

// UserID ユーザーIDを取得
func (o *MomoOrder) UserID() string {
	return o.userID
}

// Amount 支払金額（VND）を取得
func (o *MomoOrder) Amount() int64 {
	return o.amount
}

// PurchaseType 購入種別を取得
func (o *MomoOrder) PurchaseType() PurchaseType {
	return o.purchaseType
}

// CoinAmount 付与コイン数を取得
func (o *MomoOrder) CoinAmount() int64 {
	return o.coinAmount
}

// DurationDays Pro付与日数を取得
func (o *MomoOrder) DurationDays() int {
	return o.durationDays
}

// PackageID パッケージIDを取得
func (o *MomoOrder) PackageID() string {
	return o.packageID
}

// Status 状態を取得
func (o *MomoOrder) Status() OrderStatus {
	return o.status
}

// MomoTransID MoMo側の取引IDを取得
func (o *MomoOrder) MomoTransID() string {
	return o.momoTransID
}

// PayURL 決済ページURLを取得
func (o *MomoOrder) PayURL() string {
	return o.payURL
}

// Deeplink アプリ起動用ディープリンクを取得
func (o *MomoOrder) Deeplink() string {
	return o.deeplink
}

// QRCodeURL QRコードURLを取得
func (o *MomoOrder) QRCodeURL() string {
	return o.qrCodeURL
}

// FailReason 失敗理由を取得
func (o *MomoOrder) FailReason() string {
	return o.failReason
}

// CreatedAt 作成日時を取得
func (o *MomoOrder) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt 更新日時を取得
func (o *MomoOrder) UpdatedAt() time.Time {
	return o.updatedAt
}

// Pending 未確定かどうか
func (o *MomoOrder) Pending() bool {
	return o.status == OrderStatusPending
}

// SetPaymentLinks ゲートウェイ発行の決済リンクを設定する
func (o *MomoOrder) SetPaymentLinks(payURL, deeplink, qrCodeURL string) {
	o.payURL = payURL
	o.deeplink = deeplink
	o.qrCodeURL = qrCodeURL
}

// MarkSuccess pendingの注文を成功にする
func (o *MomoOrder) MarkSuccess(momoTransID string, now time.Time) error {
	if o.status != OrderStatusPending {
		return ErrOrderAlreadyFinalized
	}
	o.status = OrderStatusSuccess
	o.momoTransID = momoTransID
	o.updatedAt = now
	return nil
}

// MarkFail pendingの注文を失敗にする
func (o *MomoOrder) MarkFail(reason string, now time.Time) error {
	if o.status != OrderStatusPending {
		return ErrOrderAlreadyFinalized
	}
	o.status = OrderStatusFailed
	o.failReason = reason
	o.updatedAt = now
	return nil
}
