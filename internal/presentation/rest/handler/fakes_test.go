package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"wallet-server/internal/domain/gift"
	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/payment"
	"wallet-server/internal/domain/shop"
	"wallet-server/internal/domain/transaction"
	"wallet-server/internal/domain/user"
	"wallet-server/internal/domain/wallet"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
	"wallet-server/internal/infrastructure/payment/momo"
)

// fakeWalletRepository インメモリのウォレットリポジトリ
type fakeWalletRepository struct {
	wallets map[string]*wallet.Wallet
}

func newFakeWalletRepository() *fakeWalletRepository {
	return &fakeWalletRepository{wallets: make(map[string]*wallet.Wallet)}
}

func (f *fakeWalletRepository) key(userID string, ct wallet.CurrencyType) string {
	return userID + "/" + ct.String()
}

func (f *fakeWalletRepository) seed(userID string, ct wallet.CurrencyType, balance int64) {
	f.wallets[f.key(userID, ct)] = wallet.MustNewWallet(userID, ct, balance, 1)
}

func (f *fakeWalletRepository) FindByUserIDAndType(ctx context.Context, userID string, ct wallet.CurrencyType) (*wallet.Wallet, error) {
	w, ok := f.wallets[f.key(userID, ct)]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	return w, nil
}

func (f *fakeWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	f.wallets[f.key(w.UserID(), w.CurrencyType())] = w
	return nil
}

func (f *fakeWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	f.wallets[f.key(w.UserID(), w.CurrencyType())] = w
	return nil
}

// fakeTransactionRepository 追記内容を記録するトランザクションリポジトリ
type fakeTransactionRepository struct {
	appended []*transaction.Transaction
}

func (f *fakeTransactionRepository) Append(ctx context.Context, t *transaction.Transaction) error {
	f.appended = append(f.appended, t)
	return nil
}

func (f *fakeTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionRepository) FindByUserID(ctx context.Context, userID string, filter transaction.HistoryFilter, limit, offset int) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, t := range f.appended {
		if t.UserID() != userID {
			continue
		}
		if filter.TransactionType != nil && t.TransactionType() != *filter.TransactionType {
			continue
		}
		if filter.From != nil && t.CreatedAt().Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.CreatedAt().After(*filter.To) {
			continue
		}
		out = append(out, t)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*transaction.Transaction, error) {
	for _, t := range f.appended {
		if t.OrderID() != nil && *t.OrderID() == orderID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepository) FindRecent(ctx context.Context, filter transaction.HistoryFilter, limit int) ([]*transaction.Transaction, error) {
	out := f.appended
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeTxManager トランザクションを使わず関数を直接実行する
type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeLimiter リワード受取制限のフェイク
type fakeLimiter struct {
	claimErr error
}

func (f *fakeLimiter) Claim(ctx context.Context, userID string) error {
	return f.claimErr
}

// fakeCatalogRepository インメモリのギフトカタログ
type fakeCatalogRepository struct {
	gifts map[string]*gift.Gift
}

func (f *fakeCatalogRepository) FindActive(ctx context.Context) ([]*gift.Gift, error) {
	var active []*gift.Gift
	for _, g := range f.gifts {
		if g.Active() {
			active = append(active, g)
		}
	}
	return active, nil
}

func (f *fakeCatalogRepository) FindByID(ctx context.Context, giftID string) (*gift.Gift, error) {
	g, ok := f.gifts[giftID]
	if !ok {
		return nil, gift.ErrGiftNotFound
	}
	return g, nil
}

// fakeReceiptRepository インメモリのギフトレシートリポジトリ
type fakeReceiptRepository struct {
	receipts map[string]*gift.GiftReceipt
}

func newFakeReceiptRepository() *fakeReceiptRepository {
	return &fakeReceiptRepository{receipts: make(map[string]*gift.GiftReceipt)}
}

func (f *fakeReceiptRepository) Create(ctx context.Context, r *gift.GiftReceipt) error {
	f.receipts[r.ReceiptID()] = r
	return nil
}

func (f *fakeReceiptRepository) FindByID(ctx context.Context, receiptID string) (*gift.GiftReceipt, error) {
	r, ok := f.receipts[receiptID]
	if !ok {
		return nil, gift.ErrReceiptNotFound
	}
	return r, nil
}

func (f *fakeReceiptRepository) FindByToUserID(ctx context.Context, toUserID string, status *gift.ReceiptStatus, limit int) ([]*gift.GiftReceipt, error) {
	var out []*gift.GiftReceipt
	for _, r := range f.receipts {
		if r.ToUserID() != toUserID {
			continue
		}
		if status != nil && r.Status() != *status {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReceiptRepository) MarkRedeemed(ctx context.Context, receiptID string, redeemValue int64, redeemedAt time.Time) error {
	if _, ok := f.receipts[receiptID]; !ok {
		return gift.ErrReceiptNotFound
	}
	return nil
}

// fakeItemRepository インメモリのショップ商品リポジトリ
type fakeItemRepository struct {
	items map[string]*shop.ShopItem
}

func (f *fakeItemRepository) FindActive(ctx context.Context) ([]*shop.ShopItem, error) {
	var active []*shop.ShopItem
	for _, i := range f.items {
		if i.Active() {
			active = append(active, i)
		}
	}
	return active, nil
}

func (f *fakeItemRepository) FindByID(ctx context.Context, itemID string) (*shop.ShopItem, error) {
	i, ok := f.items[itemID]
	if !ok {
		return nil, shop.ErrItemNotFound
	}
	return i, nil
}

// fakePurchasedItemRepository インメモリの所持アイテムリポジトリ
type fakePurchasedItemRepository struct {
	owned map[string]*shop.PurchasedItem
}

func newFakePurchasedItemRepository() *fakePurchasedItemRepository {
	return &fakePurchasedItemRepository{owned: make(map[string]*shop.PurchasedItem)}
}

func (f *fakePurchasedItemRepository) key(userID, itemID string) string {
	return userID + "/" + itemID
}

func (f *fakePurchasedItemRepository) Add(ctx context.Context, p *shop.PurchasedItem, consumable bool) error {
	k := f.key(p.UserID(), p.ItemID())
	if _, ok := f.owned[k]; ok && !consumable {
		return shop.ErrAlreadyOwned
	}
	f.owned[k] = p
	return nil
}

func (f *fakePurchasedItemRepository) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	_, ok := f.owned[f.key(userID, itemID)]
	return ok, nil
}

func (f *fakePurchasedItemRepository) FindByUserID(ctx context.Context, userID string) ([]*shop.PurchasedItem, error) {
	var out []*shop.PurchasedItem
	for _, p := range f.owned {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeProfileRepository インメモリのプロフィールリポジトリ
type fakeProfileRepository struct {
	profiles map[string]*user.Profile
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{profiles: make(map[string]*user.Profile)}
}

func (f *fakeProfileRepository) FindByUserID(ctx context.Context, userID string) (*user.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, user.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepository) Save(ctx context.Context, p *user.Profile) error {
	f.profiles[p.UserID()] = p
	return nil
}

func (f *fakeProfileRepository) ListUserIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	for id := range f.profiles {
		ids = append(ids, id)
		if len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

func (f *fakeProfileRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}

// fakeOrderRepository インメモリのMoMo注文リポジトリ
// MarkSuccess/MarkFailはエンティティの状態遷移に委譲する
type fakeOrderRepository struct {
	orders map[string]*payment.MomoOrder
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[string]*payment.MomoOrder)}
}

func (f *fakeOrderRepository) Create(ctx context.Context, o *payment.MomoOrder) error {
	f.orders[o.OrderID()] = o
	return nil
}

func (f *fakeOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.MomoOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, payment.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepository) MarkSuccess(ctx context.Context, orderID, momoTransID string, updatedAt time.Time) error {
	o, ok := f.orders[orderID]
	if !ok {
		return payment.ErrOrderNotFound
	}
	return o.MarkSuccess(momoTransID, updatedAt)
}

func (f *fakeOrderRepository) MarkFail(ctx context.Context, orderID, reason string, updatedAt time.Time) error {
	o, ok := f.orders[orderID]
	if !ok {
		return payment.ErrOrderNotFound
	}
	return o.MarkFail(reason, updatedAt)
}

// fakeGateway MoMoゲートウェイのフェイク
type fakeGateway struct {
	createResp     *momo.CreatePaymentResponse
	createErr      error
	validSignature bool
}

func (f *fakeGateway) CreatePayment(ctx context.Context, req *momo.CreatePaymentRequest) (*momo.CreatePaymentResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResp != nil {
		return f.createResp, nil
	}
	return &momo.CreatePaymentResponse{
		OrderID:    req.OrderID,
		RequestID:  req.RequestID,
		Amount:     req.Amount,
		ResultCode: 0,
		PayURL:     "https://test-payment.momo.vn/pay/" + req.OrderID,
	}, nil
}

func (f *fakeGateway) VerifyCallbackSignature(payload *momo.CallbackPayload) bool {
	return f.validSignature
}

func newTestProfile(t *testing.T, userID string) *user.Profile {
	t.Helper()
	p, err := user.NewProfile(userID, time.Now())
	require.NoError(t, err)
	return p
}

func newTestObservability(t *testing.T) (*otelinfra.Logger, *otelinfra.Metrics) {
	t.Helper()
	tracer := otel.Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)
	return logger, metrics
}

func newTestLedger(walletRepo *fakeWalletRepository, txRepo *fakeTransactionRepository) *ledger.Service {
	return ledger.NewService(walletRepo, txRepo)
}
