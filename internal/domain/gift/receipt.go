package gift

import (
	"math"
	"time"
)

// SystemSender 運営配布ギフトの送信者ID
const SystemSender = "system"

// ReceiptStatus レシートの既読状態
type ReceiptStatus string

const (
	ReceiptStatusUnread ReceiptStatus = "unread"
	ReceiptStatusRead   ReceiptStatus = "read"
)

// NewReceiptStatus 新しいReceiptStatusを作成
func NewReceiptStatus(s string) (ReceiptStatus, error) {
	switch s {
	case "unread", "read":
		return ReceiptStatus(s), nil
	default:
		return "", ErrInvalidReceiptStatus
	}
}

// String 文字列表現を返す
func (s ReceiptStatus) String() string {
	return string(s)
}

// GiftReceipt 受け取ったギフトのレシート
// ギフト内容は受領時点のスナップショットであり、カタログの後日変更の影響を受けない
type GiftReceipt struct {
	receiptID   string
	fromUserID  string
	fromName    string
	toUserID    string
	roomID      string
	gift        *Gift
	status      ReceiptStatus
	redeemed    bool
	redeemedAt  *time.Time
	redeemValue *int64
	createdAt   time.Time
}

// NewGiftReceipt 新しいGiftReceiptを作成
func NewGiftReceipt(receiptID, fromUserID, fromName, toUserID, roomID string, g *Gift, createdAt time.Time) (*GiftReceipt, error) {
	if receiptID == "" || fromUserID == "" || toUserID == "" {
		return nil, ErrInvalidReceipt
	}
	if g == nil {
		return nil, ErrInvalidReceipt
	}

	return &GiftReceipt{
		receiptID:  receiptID,
		fromUserID: fromUserID,
		fromName:   fromName,
		toUserID:   toUserID,
		roomID:     roomID,
		gift:       g,
		status:     ReceiptStatusUnread,
		createdAt:  createdAt,
	}, nil
}

// ReconstructGiftReceipt 永続化層からの復元
func ReconstructGiftReceipt(
	receiptID, fromUserID, fromName, toUserID, roomID string,
	g *Gift,
	status ReceiptStatus,
	redeemed bool,
	redeemedAt *time.Time,
	redeemValue *int64,
	createdAt time.Time,
) *GiftReceipt {
	return &GiftReceipt{
		receiptID:   receiptID,
		fromUserID:  fromUserID,
		fromName:    fromName,
		toUserID:    toUserID,
		roomID:      roomID,
		gift:        g,
		status:      status,
		redeemed:    redeemed,
		redeemedAt:  redeemedAt,
		redeemValue: redeemValue,
		createdAt:   createdAt,
	}
}

// ReceiptID レシートIDを取得
func (r *GiftReceipt) ReceiptID() string {
	return r.receiptID
}

// FromUserID 送信者のユーザーIDを取得
func (r *GiftReceipt) FromUserID() string {
	return r.fromUserID
}

// FromName 送信者の表示名を取得
func (r *GiftReceipt) FromName() string {
	return r.fromName
}

// ToUserID 受信者のユーザーIDを取得
func (r *GiftReceipt) ToUserID() string {
	return r.toUserID
}

// RoomID 送信元チャットルームIDを取得
func (r *GiftReceipt) RoomID() string {
	return r.roomID
}

// Gift ギフトスナップショットを取得
func (r *GiftReceipt) Gift() *Gift {
	return r.gift
}

// Status 既読状態を取得
func (r *GiftReceipt) Status() ReceiptStatus {
	return r.status
}

// Redeemed 換金済みかどうか
func (r *GiftReceipt) Redeemed() bool {
	return r.redeemed
}

// RedeemedAt 換金日時を取得
func (r *GiftReceipt) RedeemedAt() *time.Time {
	return r.redeemedAt
}

// RedeemValue 換金額を取得
func (r *GiftReceipt) RedeemValue() *int64 {
	return r.redeemValue
}

// CreatedAt 受領日時を取得
func (r *GiftReceipt) CreatedAt() time.Time {
	return r.createdAt
}

// MarkRead 既読にする
func (r *GiftReceipt) MarkRead() {
	r.status = ReceiptStatusRead
}

// Redeem レシートを換金する
// レートは (0, 1] の範囲。換金額は floor(価格 × レート)。
// 換金は1レシートにつき1回きりで、2回目以降はErrAlreadyRedeemed。
func (r *GiftReceipt) Redeem(rate float64, now time.Time) (int64, error) {
	if r.redeemed {
		return 0, ErrAlreadyRedeemed
	}
	if rate <= 0 || rate > 1 {
		return 0, ErrInvalidRedeemRate
	}

	value := int64(math.Floor(float64(r.gift.Price()) * rate))
	if value <= 0 {
		return 0, ErrInvalidRedeemValue
	}

	r.redeemed = true
	r.redeemedAt = &now
	r.redeemValue = &value
	return value, nil
}
