package services

import (
	"context"
	"testing"
	"time"

	"ecocreds/internal/checkout"
	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"
	"ecocreds/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testCheckoutConfig = checkout.Config{
	FreeDeliveryThreshold: 500,
	FlatDeliveryFee:       49,
	OffsetFeeAmount:       20,
	PointsPerHundred:      1,
	OffsetBonusPoints:     5,
}

// --- fakes ---

type fakeCartRepo struct {
	cart    *models.Cart
	cleared bool
}

func (f *fakeCartRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return f.cart, nil
}
func (f *fakeCartRepo) Save(ctx context.Context, cart *models.Cart) error { return nil }
func (f *fakeCartRepo) Clear(ctx context.Context, userID primitive.ObjectID) error {
	f.cleared = true
	return nil
}

type fakeLoyaltyRepo struct {
	account *models.LoyaltyAccount
	saved   *models.LoyaltyAccount
}

func (f *fakeLoyaltyRepo) Create(ctx context.Context, account *models.LoyaltyAccount) error {
	return nil
}
func (f *fakeLoyaltyRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.LoyaltyAccount, error) {
	return f.account, nil
}
func (f *fakeLoyaltyRepo) Save(ctx context.Context, account *models.LoyaltyAccount) error {
	snapshot := *account
	f.saved = &snapshot
	return nil
}
func (f *fakeLoyaltyRepo) GetTopAccounts(ctx context.Context, limit int) ([]*models.LoyaltyAccount, error) {
	return nil, nil
}

type fakeCreditRepo struct {
	credits    []*models.FlatCredit
	used       []primitive.ObjectID
	markUsedAs error
}

func (f *fakeCreditRepo) Create(ctx context.Context, credit *models.FlatCredit) error { return nil }
func (f *fakeCreditRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FlatCredit, error) {
	return nil, interfaces.ErrNotFound
}
func (f *fakeCreditRepo) GetByCode(ctx context.Context, code string) (*models.FlatCredit, error) {
	return nil, interfaces.ErrNotFound
}
func (f *fakeCreditRepo) GetAvailableByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.FlatCredit, error) {
	return f.credits, nil
}
func (f *fakeCreditRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.FlatCredit, int64, error) {
	return f.credits, int64(len(f.credits)), nil
}
func (f *fakeCreditRepo) MarkUsed(ctx context.Context, id primitive.ObjectID, orderID primitive.ObjectID) error {
	if f.markUsedAs != nil {
		return f.markUsedAs
	}
	f.used = append(f.used, id)
	return nil
}
func (f *fakeCreditRepo) MarkExpired(ctx context.Context) (int64, error) { return 0, nil }

type fakeOrderRepo struct {
	created *models.Order
	byRef   map[string]*models.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	f.created = order
	return nil
}
func (f *fakeOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return nil, interfaces.ErrNotFound
}
func (f *fakeOrderRepo) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	if order, ok := f.byRef[reference]; ok {
		return order, nil
	}
	return nil, interfaces.ErrNotFound
}
func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return nil, 0, nil
}
func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return nil
}
func (f *fakeOrderRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID string) error {
	return nil
}

type fakeActivityRepo struct {
	activities []*models.Activity
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	f.activities = append(f.activities, activity)
	return nil
}
func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	return f.activities, int64(len(f.activities)), nil
}
func (f *fakeActivityRepo) ListByType(ctx context.Context, activityType models.ActivityType, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	return nil, 0, nil
}

type fakeProductRepo struct {
	decremented map[string]int64
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }
func (f *fakeProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return nil, interfaces.ErrNotFound
}
func (f *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}
func (f *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (f *fakeProductRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return nil, 0, nil
}
func (f *fakeProductRepo) GetByCategory(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return nil, 0, nil
}
func (f *fakeProductRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int64) error {
	if f.decremented == nil {
		f.decremented = make(map[string]int64)
	}
	f.decremented[id.Hex()] += quantity
	return nil
}

type fakeCache struct {
	setNXResult bool
	setKeys     []string
	deletedKeys []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return interfaces.ErrNotFound
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.deletedKeys = append(f.deletedKeys, keys...)
	return nil
}
func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }
func (f *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	f.setKeys = append(f.setKeys, key)
	return f.setNXResult, nil
}
func (f *fakeCache) Increment(ctx context.Context, key string) (int64, error) { return 0, nil }
func (f *fakeCache) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

// fakeTxRunner just invokes the callback; the tests assert that a failing
// callback propagates its error so a real session would abort.
type fakeTxRunner struct {
	ran bool
}

func (f *fakeTxRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.ran = true
	return fn(ctx)
}

type fakeProvider struct {
	charges []*payment.PaymentRequest
	refunds []*payment.RefundRequest
}

func (f *fakeProvider) ProcessPayment(ctx context.Context, request *payment.PaymentRequest) (*payment.PaymentResponse, error) {
	f.charges = append(f.charges, request)
	return &payment.PaymentResponse{
		TransactionID: "pay_test_1",
		Status:        "succeeded",
		Amount:        request.Amount,
		Currency:      request.Currency,
	}, nil
}
func (f *fakeProvider) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	f.refunds = append(f.refunds, request)
	return &payment.RefundResponse{RefundID: "re_test_1", Status: "succeeded", Amount: request.Amount}, nil
}
func (f *fakeProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	return nil, nil
}

type fakeNotifier struct {
	userEvents []string
}

func (f *fakeNotifier) SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{}) {
	f.userEvents = append(f.userEvents, notificationType)
}
func (f *fakeNotifier) SendMarketplaceEvent(eventType string, data map[string]interface{}) {}

// --- harness ---

type checkoutFixture struct {
	service  CheckoutService
	userID   primitive.ObjectID
	cartRepo *fakeCartRepo
	loyalty  *fakeLoyaltyRepo
	credits  *fakeCreditRepo
	orders   *fakeOrderRepo
	activity *fakeActivityRepo
	products *fakeProductRepo
	cache    *fakeCache
	tx       *fakeTxRunner
	provider *fakeProvider
	notifier *fakeNotifier
}

func newCheckoutFixture(t *testing.T, balance int64, lines []models.CartLine, credits []*models.FlatCredit) *checkoutFixture {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	userID := primitive.NewObjectID()

	f := &checkoutFixture{
		userID:   userID,
		cartRepo: &fakeCartRepo{cart: &models.Cart{UserID: userID, Lines: lines}},
		loyalty:  &fakeLoyaltyRepo{account: &models.LoyaltyAccount{UserID: userID, PointBalance: balance, CurrentTier: "Explorer"}},
		credits:  &fakeCreditRepo{credits: credits},
		orders:   &fakeOrderRepo{byRef: make(map[string]*models.Order)},
		activity: &fakeActivityRepo{},
		products: &fakeProductRepo{},
		cache:    &fakeCache{setNXResult: true},
		tx:       &fakeTxRunner{},
		provider: &fakeProvider{},
		notifier: &fakeNotifier{},
	}

	f.service = NewCheckoutService(
		f.cartRepo, f.loyalty, f.credits, f.orders, f.activity, f.products,
		f.tx, f.cache, f.provider, f.notifier,
		testCheckoutConfig, "USD", log,
	)

	return f
}

func line(price, qty int64) models.CartLine {
	return models.CartLine{ProductID: primitive.NewObjectID(), UnitPrice: price, Quantity: qty}
}

func availableCredit(value, minOrder int64, issuedAt time.Time) *models.FlatCredit {
	return &models.FlatCredit{
		ID:            primitive.NewObjectID(),
		Code:          "ECO-TEST",
		Value:         value,
		MinOrderValue: minOrder,
		Status:        models.CreditStatusAvailable,
		IssuedAt:      issuedAt,
	}
}

// --- tests ---

func TestCommitHappyPath(t *testing.T) {
	credit := availableCredit(50, 0, time.Now())
	f := newCheckoutFixture(t, 200, []models.CartLine{line(600, 1)}, []*models.FlatCredit{credit})

	order, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{
		RequestedPoints: 100,
		PaymentMethodID: "pm_card",
	})
	require.NoError(t, err)

	// 600 subtotal, free delivery, credit 50, points 100
	assert.Equal(t, int64(600), order.Subtotal)
	assert.Equal(t, int64(0), order.DeliveryFee)
	assert.Equal(t, int64(150), order.DiscountTotal)
	assert.Equal(t, int64(450), order.Total)
	assert.Equal(t, int64(6), order.PointsEarned)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_test_1", order.PaymentID)
	assert.NotEmpty(t, order.Reference)

	// gateway charged the quote total exactly
	require.Len(t, f.provider.charges, 1)
	assert.Equal(t, int64(450), f.provider.charges[0].Amount)
	assert.Empty(t, f.provider.refunds)

	// credit consumed, balance 200 - 100 + 6
	require.Len(t, f.credits.used, 1)
	assert.Equal(t, credit.ID, f.credits.used[0])
	require.NotNil(t, f.loyalty.saved)
	assert.Equal(t, int64(106), f.loyalty.saved.PointBalance)

	assert.True(t, f.tx.ran)
	assert.True(t, f.cartRepo.cleared)
	assert.Len(t, f.products.decremented, 1)

	// order placed + points redeemed + points earned + credit used
	assert.Len(t, f.activity.activities, 4)
	assert.Contains(t, f.notifier.userEvents, utils.EventOrderPlaced)
	assert.Contains(t, f.notifier.userEvents, utils.EventPointsRedeemed)
}

func TestCommitFullyCoveredSkipsCharge(t *testing.T) {
	f := newCheckoutFixture(t, 1000, []models.CartLine{line(300, 1)}, nil)

	// 300 + 49 delivery = 349, all covered by points
	order, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{
		RequestedPoints: 349,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), order.Total)
	assert.Empty(t, f.provider.charges)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
}

func TestCommitDeduplicatesByReference(t *testing.T) {
	f := newCheckoutFixture(t, 0, []models.CartLine{line(100, 1)}, nil)

	existing := &models.Order{Reference: "chk_dup", Total: 149}
	f.orders.byRef["chk_dup"] = existing
	f.cache.setNXResult = false

	order, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{Reference: "chk_dup"})
	require.NoError(t, err)

	// retry returns the original order, nothing is charged again
	assert.Same(t, existing, order)
	assert.Empty(t, f.provider.charges)
	assert.False(t, f.tx.ran)
}

func TestCommitInFlightWithoutOrderConflicts(t *testing.T) {
	f := newCheckoutFixture(t, 0, []models.CartLine{line(100, 1)}, nil)
	f.cache.setNXResult = false

	_, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{Reference: "chk_racing"})
	assert.ErrorIs(t, err, ErrDuplicateCheckout)
}

func TestCommitStaleCreditAbortsAndRefunds(t *testing.T) {
	credit := availableCredit(50, 0, time.Now())
	f := newCheckoutFixture(t, 0, []models.CartLine{line(600, 1)}, []*models.FlatCredit{credit})
	f.credits.markUsedAs = interfaces.ErrCreditUnavailable

	_, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{PaymentMethodID: "pm_card"})
	assert.ErrorIs(t, err, checkout.ErrStaleInstrument)

	// the transaction aborted: nothing past the failing step ran
	assert.False(t, f.cartRepo.cleared)
	assert.Nil(t, f.loyalty.saved)
	assert.Empty(t, f.activity.activities)

	// the captured charge was returned and the dedup guard released
	require.Len(t, f.provider.refunds, 1)
	assert.Equal(t, int64(550), f.provider.refunds[0].Amount)
	assert.Equal(t, "USD", f.provider.refunds[0].Currency)
	require.Len(t, f.cache.deletedKeys, 1)
	assert.Contains(t, f.cache.deletedKeys[0], utils.CacheCheckoutDedup)
}

func TestCommitRejectsOversizedPointsRequest(t *testing.T) {
	// quote would clamp 500 down to the 100 balance; commit must reject
	f := newCheckoutFixture(t, 100, []models.CartLine{line(600, 1)}, nil)

	_, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{RequestedPoints: 500})
	assert.ErrorIs(t, err, checkout.ErrInvalidRedemption)

	assert.Empty(t, f.provider.charges)
	assert.False(t, f.tx.ran)
	// guard released so the client can retry with a valid request
	assert.Len(t, f.cache.deletedKeys, 1)
}

func TestCommitEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, 0, nil, nil)

	_, err := f.service.Commit(context.Background(), f.userID, &CommitRequest{})
	assert.ErrorIs(t, err, checkout.ErrInvalidCart)
}

func TestQuoteDoesNotTouchState(t *testing.T) {
	credit := availableCredit(50, 0, time.Now())
	f := newCheckoutFixture(t, 200, []models.CartLine{line(600, 1)}, []*models.FlatCredit{credit})

	quote, err := f.service.Quote(context.Background(), f.userID, checkout.Selections{RequestedPoints: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(450), quote.Total)
	assert.Empty(t, f.credits.used)
	assert.Empty(t, f.provider.charges)
	assert.False(t, f.tx.ran)
	assert.Nil(t, f.orders.created)
}

func TestQuoteClampsOversizedPointsRequest(t *testing.T) {
	f := newCheckoutFixture(t, 100, []models.CartLine{line(600, 1)}, nil)

	quote, err := f.service.Quote(context.Background(), f.userID, checkout.Selections{RequestedPoints: 500})
	require.NoError(t, err)

	assert.Equal(t, int64(100), quote.AppliedPoints)
	assert.Equal(t, int64(500), quote.Total)
}
