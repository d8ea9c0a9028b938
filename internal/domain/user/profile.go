package user

import "time"

const (
	// ProMessageLimit Proユーザーの1日のメッセージ送信上限
	ProMessageLimit = 500
	// FreeMessageLimit 無料ユーザーの1日のメッセージ送信上限
	FreeMessageLimit = 50
)

// Profile 経済圏に関わるユーザーのアカウント状態
// Proの期限切れは書き込みではなく参照時に判定する
type Profile struct {
	userID            string
	isPro             bool
	proExpiresAt      *time.Time
	boostedUntil      *time.Time
	vipBadge          bool
	banned            bool
	banReason         string
	bannedBy          string
	bannedAt          *time.Time
	messagesSentToday int
	lastMessageAt     *time.Time
	updatedAt         time.Time
}

// NewProfile 新しいProfileを作成
func NewProfile(userID string, now time.Time) (*Profile, error) {
	if userID == "" {
		return nil, ErrInvalidProfile
	}
	return &Profile{
		userID:    userID,
		updatedAt: now,
	}, nil
}

// ReconstructProfile 永続化層からの復元
func ReconstructProfile(
	userID string,
	isPro bool,
	proExpiresAt, boostedUntil *time.Time,
	vipBadge, banned bool,
	banReason, bannedBy string,
	bannedAt *time.Time,
	messagesSentToday int,
	lastMessageAt *time.Time,
	updatedAt time.Time,
) *Profile {
	return &Profile{
		userID:            userID,
		isPro:             isPro,
		proExpiresAt:      proExpiresAt,
		boostedUntil:      boostedUntil,
		vipBadge:          vipBadge,
		banned:            banned,
		banReason:         banReason,
		bannedBy:          bannedBy,
		bannedAt:          bannedAt,
		messagesSentToday: messagesSentToday,
		lastMessageAt:     lastMessageAt,
		updatedAt:         updatedAt,
	}
}

// UserID ユーザーIDを取得
func (p *Profile) UserID() string {
	return p.userID
}

// ProExpiresAt Pro期限を取得
func (p *Profile) ProExpiresAt() *time.Time {
	return p.proExpiresAt
}

// BoostedUntil ブースト期限を取得
func (p *Profile) BoostedUntil() *time.Time {
	return p.boostedUntil
}

// VipBadge VIPバッジを持っているかどうか
func (p *Profile) VipBadge() bool {
	return p.vipBadge
}

// Banned BANされているかどうか
func (p *Profile) Banned() bool {
	return p.banned
}

// BanReason BAN理由を取得
func (p *Profile) BanReason() string {
	return p.banReason
}

// BannedBy BANした管理者を取得
func (p *Profile) BannedBy() string {
	return p.bannedBy
}

// BannedAt BAN日時を取得
func (p *Profile) BannedAt() *time.Time {
	return p.bannedAt
}

// UpdatedAt 更新日時を取得
func (p *Profile) UpdatedAt() time.Time {
	return p.updatedAt
}

// ProActive 現時点でProが有効かどうか
// 期限が過ぎている場合はフラグが残っていてもfalse
func (p *Profile) ProActive(now time.Time) bool {
	if !p.isPro {
		return false
	}
	if p.proExpiresAt == nil {
		return false
	}
	return p.proExpiresAt.After(now)
}

// BoostActive 現時点でブーストが有効かどうか
func (p *Profile) BoostActive(now time.Time) bool {
	return p.boostedUntil != nil && p.boostedUntil.After(now)
}

// GrantPro Proを延長する
// 有効なPro期間が残っている場合はその期限から、切れている場合は現在から延長する
func (p *Profile) GrantPro(duration time.Duration, now time.Time) {
	base := now
	if p.ProActive(now) {
		base = *p.proExpiresAt
	}
	expires := base.Add(duration)
	p.isPro = true
	p.proExpiresAt = &expires
	p.vipBadge = true
	p.updatedAt = now
}

// GrantBoost プロフィールブーストを付与する
func (p *Profile) GrantBoost(duration time.Duration, now time.Time) {
	until := now.Add(duration)
	p.boostedUntil = &until
	p.updatedAt = now
}

// LastMessageAt 最後のメッセージ送信日時を取得
func (p *Profile) LastMessageAt() *time.Time {
	return p.lastMessageAt
}

// MessageLimit 1日のメッセージ送信上限
// Proが有効なら500通、無料ユーザーは50通
func (p *Profile) MessageLimit(now time.Time) int {
	if p.ProActive(now) {
		return ProMessageLimit
	}
	return FreeMessageLimit
}

// MessagesSentToday 今日送信したメッセージ数
// 最後の送信が前日以前ならゼロとして扱う
func (p *Profile) MessagesSentToday(now time.Time) int {
	if p.lastMessageAt == nil || p.lastMessageAt.Before(startOfDay(now)) {
		return 0
	}
	return p.messagesSentToday
}

// IncrementMessageCount 今日の送信数を1加算する
// 上限に達している場合はErrMessageLimitReached
func (p *Profile) IncrementMessageCount(now time.Time) error {
	count := p.MessagesSentToday(now)
	if count >= p.MessageLimit(now) {
		return ErrMessageLimitReached
	}
	p.messagesSentToday = count + 1
	p.lastMessageAt = &now
	p.updatedAt = now
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Ban ユーザーをBANする
func (p *Profile) Ban(reason, adminID string, now time.Time) {
	p.banned = true
	p.banReason = reason
	p.bannedBy = adminID
	p.bannedAt = &now
	p.updatedAt = now
}

// Unban BANを解除する
func (p *Profile) Unban(now time.Time) {
	p.banned = false
	p.banReason = ""
	p.bannedBy = ""
	p.bannedAt = nil
	p.updatedAt = now
}
