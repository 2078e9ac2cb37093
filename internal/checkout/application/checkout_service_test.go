package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	cartapp "github.com/aurorajewels/storefront/internal/cart/application"
	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/internal/checkout/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartRepo struct {
	lines []*cartdomain.CartLine
}

func (r *fakeCartRepo) Upsert(context.Context, *cartdomain.CartLine) error { return nil }
func (r *fakeCartRepo) GetLine(context.Context, uint) (*cartdomain.CartLine, error) {
	return nil, nil
}
func (r *fakeCartRepo) GetLines(_ context.Context, userID, sessionID string) ([]*cartdomain.CartLine, error) {
	var out []*cartdomain.CartLine
	for _, l := range r.lines {
		if (userID != "" && l.UserID == userID) ||
			(sessionID != "" && l.UserID == "" && l.SessionID == sessionID) {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *fakeCartRepo) UpdateQuantity(context.Context, uint, int) error { return nil }
func (r *fakeCartRepo) DeleteLine(context.Context, uint) error          { return nil }
func (r *fakeCartRepo) Clear(_ context.Context, userID, sessionID string) error {
	var kept []*cartdomain.CartLine
	for _, l := range r.lines {
		owned := (userID != "" && l.UserID == userID) ||
			(sessionID != "" && l.UserID == "" && l.SessionID == sessionID)
		if !owned {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}
func (r *fakeCartRepo) MergeSessionIntoUser(context.Context, string, string) error { return nil }

type passthroughCatalog struct{}

func (passthroughCatalog) Snapshot(_ context.Context, productID, variantID uint) (*cartdomain.ProductSnapshot, error) {
	return nil, errors.New("catalog unavailable")
}

type fakeOrderRepo struct {
	orders []*orderdomain.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *orderdomain.Order) error {
	order.ID = uint(len(r.orders) + 1)
	r.orders = append(r.orders, order)
	return nil
}
func (r *fakeOrderRepo) Get(_ context.Context, id uint) (*orderdomain.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, orderdomain.ErrOrderNotFound
}
func (r *fakeOrderRepo) GetByPaymentRef(_ context.Context, ref string) (*orderdomain.Order, error) {
	for _, o := range r.orders {
		if o.PaymentRef == ref {
			return o, nil
		}
	}
	return nil, nil
}
func (r *fakeOrderRepo) ListByUser(context.Context, string, int, int) ([]*orderdomain.Order, int64, error) {
	return nil, 0, nil
}
func (r *fakeOrderRepo) ListAll(context.Context, orderdomain.Status, int, int) ([]*orderdomain.Order, int64, error) {
	return nil, 0, nil
}
func (r *fakeOrderRepo) Save(context.Context, *orderdomain.Order) error { return nil }

type fakeAttempts struct {
	saved  []*domain.CheckoutAttempt
	states map[string]string
}

func (a *fakeAttempts) Save(_ context.Context, attempt *domain.CheckoutAttempt) error {
	a.saved = append(a.saved, attempt)
	return nil
}
func (a *fakeAttempts) GetByProviderRef(_ context.Context, ref string) (*domain.CheckoutAttempt, error) {
	for _, attempt := range a.saved {
		if attempt.ProviderRef == ref {
			return attempt, nil
		}
	}
	return nil, nil
}
func (a *fakeAttempts) MarkState(_ context.Context, ref, state, _ string) error {
	if a.states == nil {
		a.states = map[string]string{}
	}
	a.states[ref] = state
	return nil
}

// fakeUow 模拟 payment_ref 唯一索引语义。
// race 置位时先替并发请求落一单再返回唯一键冲突。
type fakeUow struct {
	orders *fakeOrderRepo
	cart   *fakeCartRepo
	race   bool
}

func (u *fakeUow) CreateOrderAndClearCart(ctx context.Context, order *orderdomain.Order, owner cartdomain.Owner) error {
	if u.race {
		u.race = false
		competing := &orderdomain.Order{PaymentRef: order.PaymentRef, Status: orderdomain.StatusConfirmed}
		if err := u.orders.Create(ctx, competing); err != nil {
			return err
		}
	}
	if existing, _ := u.orders.GetByPaymentRef(ctx, order.PaymentRef); existing != nil {
		return errors.New("duplicate entry for key payment_ref")
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return err
	}
	return u.cart.Clear(ctx, owner.UserID, owner.SessionID)
}

type fakeProvider struct {
	name       string
	intents    int
	verifyRef  string
	verifyFail bool
}

func (p *fakeProvider) Name() string { return p.name }
func (p *fakeProvider) CreateIntent(_ context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	p.intents++
	return &domain.Intent{
		Provider:    p.name,
		ProviderRef: fmt.Sprintf("%s_intent_%d", p.name, p.intents),
		Amount:      req.Amount.Shift(2).IntPart(),
		Currency:    req.Currency,
	}, nil
}
func (p *fakeProvider) VerifyConfirmation(context.Context, domain.Confirmation) (string, error) {
	if p.verifyFail {
		return "", domain.ErrPaymentVerification
	}
	return p.verifyRef, nil
}

type fakePublisher struct {
	events []interface{}
}

func (p *fakePublisher) Publish(_ context.Context, _ string, _ string, event interface{}) error {
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	svc       *CheckoutService
	cartRepo  *fakeCartRepo
	orderRepo *fakeOrderRepo
	attempts  *fakeAttempts
	provider  *fakeProvider
	publisher *fakePublisher
	uow       *fakeUow
}

func newFixture(lines ...*cartdomain.CartLine) *fixture {
	cartRepo := &fakeCartRepo{lines: lines}
	orderRepo := &fakeOrderRepo{}
	attempts := &fakeAttempts{}
	provider := &fakeProvider{name: "stripe", verifyRef: "pi_123"}
	publisher := &fakePublisher{}
	uow := &fakeUow{orders: orderRepo, cart: cartRepo}

	cartQuery := cartapp.NewCartQueryService(cartRepo, passthroughCatalog{})
	svc := NewCheckoutService(
		cartQuery, orderRepo, attempts, uow,
		[]domain.PaymentProvider{provider},
		publisher, "order.confirmed",
		Pricing{
			Currency:    "AUD",
			ShippingFee: decimal.NewFromFloat(10.0),
			TaxRate:     decimal.Zero,
		},
	)

	return &fixture{svc: svc, cartRepo: cartRepo, orderRepo: orderRepo,
		attempts: attempts, provider: provider, publisher: publisher, uow: uow}
}

func sessionLine(product uint, qty int, price float64) *cartdomain.CartLine {
	return &cartdomain.CartLine{
		SessionID: "sess-1",
		ProductID: product,
		Quantity:  qty,
		Price:     price,
		Title:     fmt.Sprintf("Product %d", product),
	}
}

var sessionOwner = cartdomain.Owner{SessionID: "sess-1"}

func TestTotals(t *testing.T) {
	f := newFixture()

	subtotal, shipping, tax, total := f.svc.Totals([]*cartdomain.CartLine{
		sessionLine(1, 2, 49.99),
		sessionLine(2, 1, 25.50),
	})

	assert.Equal(t, "125.48", subtotal.StringFixed(2))
	assert.Equal(t, "10.00", shipping.StringFixed(2))
	assert.Equal(t, "0.00", tax.StringFixed(2))
	assert.Equal(t, "135.48", total.StringFixed(2))
}

func TestCreateIntentEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateIntent(context.Background(), sessionOwner, "stripe", "a@b.com")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, f.provider.intents)
}

func TestCreateIntentUnknownProvider(t *testing.T) {
	f := newFixture(sessionLine(1, 1, 10.0))

	_, err := f.svc.CreateIntent(context.Background(), sessionOwner, "paypal", "")
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestCreateIntentRecordsAttempt(t *testing.T) {
	f := newFixture(sessionLine(1, 2, 49.99))

	intent, err := f.svc.CreateIntent(context.Background(), sessionOwner, "stripe", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "stripe", intent.Provider)
	// 49.99*2 + 10 运费
	assert.Equal(t, int64(10998), intent.Amount)

	require.Len(t, f.attempts.saved, 1)
	attempt := f.attempts.saved[0]
	assert.Equal(t, domain.AttemptIntentCreated, attempt.State)
	assert.Equal(t, "109.98", attempt.Amount.StringFixed(2))
	assert.Equal(t, "sess-1", attempt.SessionID)
}

func TestConfirmPaymentVerificationFailureKeepsCart(t *testing.T) {
	f := newFixture(sessionLine(1, 1, 10.0))
	f.provider.verifyFail = true

	_, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		domain.Confirmation{PaymentIntentID: "pi_123"}, "a@b.com", ShippingAddress{})

	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	assert.Len(t, f.cartRepo.lines, 1)
	assert.Empty(t, f.orderRepo.orders)
	assert.Equal(t, domain.AttemptFailed, f.attempts.states["pi_123"])
}

func TestConfirmPaymentEmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		domain.Confirmation{PaymentIntentID: "pi_123"}, "a@b.com", ShippingAddress{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestConfirmPaymentCreatesOrderAndClearsCart(t *testing.T) {
	f := newFixture(sessionLine(1, 2, 49.99), sessionLine(2, 1, 25.50))

	order, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		domain.Confirmation{PaymentIntentID: "pi_123"}, "a@b.com",
		ShippingAddress{Name: "Jo", Line1: "1 Pearl St", City: "Sydney", Postal: "2000", Country: "AU"})
	require.NoError(t, err)

	assert.Equal(t, orderdomain.StatusConfirmed, order.Status)
	assert.Equal(t, orderdomain.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "pi_123", order.PaymentRef)
	assert.Equal(t, "135.48", order.Total.StringFixed(2))
	assert.Len(t, order.Items, 2)
	assert.NotEmpty(t, order.OrderNumber)

	// 订单落库后购物车清空
	assert.Empty(t, f.cartRepo.lines)
	// 事件已发布
	require.Len(t, f.publisher.events, 1)
	event, ok := f.publisher.events[0].(orderdomain.OrderConfirmedEvent)
	require.True(t, ok)
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	assert.Equal(t, "135.48", event.Total)

	assert.Equal(t, domain.AttemptOrderCreated, f.attempts.states["pi_123"])
}

func TestConfirmPaymentReplayReturnsSameOrder(t *testing.T) {
	f := newFixture(sessionLine(1, 1, 10.0))
	conf := domain.Confirmation{PaymentIntentID: "pi_123"}

	first, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		conf, "a@b.com", ShippingAddress{})
	require.NoError(t, err)

	// 购物车已清空后重放确认，返回原单而非报错或建新单
	second, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		conf, "a@b.com", ShippingAddress{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestConfirmPaymentRejectsAmountChangedAfterIntent(t *testing.T) {
	f := newFixture(sessionLine(1, 1, 10.0))

	intent, err := f.svc.CreateIntent(context.Background(), sessionOwner, "stripe", "a@b.com")
	require.NoError(t, err)

	// 意图创建后又往车里加了东西，确认时总额已对不上授权金额
	f.cartRepo.lines = append(f.cartRepo.lines, sessionLine(2, 1, 99.0))

	_, err = f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		domain.Confirmation{PaymentIntentID: intent.ProviderRef}, "a@b.com", ShippingAddress{})
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)

	// 不落单、不清车
	assert.Empty(t, f.orderRepo.orders)
	assert.Len(t, f.cartRepo.lines, 2)
	assert.Equal(t, domain.AttemptFailed, f.attempts.states[intent.ProviderRef])
}

func TestConfirmPaymentConcurrentDuplicateFallsBackToExisting(t *testing.T) {
	f := newFixture(sessionLine(1, 1, 10.0))

	// 幂等预检查过后、落库之前被并发请求抢先，撞唯一索引后回查拿原单
	f.uow.race = true

	order, err := f.svc.ConfirmPayment(context.Background(), sessionOwner, "stripe",
		domain.Confirmation{PaymentIntentID: "pi_123"}, "a@b.com", ShippingAddress{})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", order.PaymentRef)
	assert.Len(t, f.orderRepo.orders, 1)
}
