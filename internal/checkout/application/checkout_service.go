// Package application 实现结算编排服务。
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	cartapp "github.com/aurorajewels/storefront/internal/cart/application"
	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/internal/checkout/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing 结算定价参数
type Pricing struct {
	// 结算币种
	Currency string
	// 固定运费
	ShippingFee decimal.Decimal
	// 税率，0 表示免税
	TaxRate decimal.Decimal
}

// ShippingAddress 收货地址
type ShippingAddress struct {
	Name    string
	Line1   string
	City    string
	State   string
	Postal  string
	Country string
}

// CheckoutService 结算编排服务。
// 金额一律由服务端从实时购物车推导，客户端报文中的金额不参与计算。
type CheckoutService struct {
	cart      *cartapp.CartQueryService
	orders    orderdomain.OrderRepository
	attempts  domain.AttemptRepository
	uow       domain.UnitOfWork
	providers map[string]domain.PaymentProvider
	publisher orderdomain.EventPublisher
	topic     string
	pricing   Pricing
}

// NewCheckoutService 创建结算服务实例
func NewCheckoutService(
	cart *cartapp.CartQueryService,
	orders orderdomain.OrderRepository,
	attempts domain.AttemptRepository,
	uow domain.UnitOfWork,
	providers []domain.PaymentProvider,
	publisher orderdomain.EventPublisher,
	topic string,
	pricing Pricing,
) *CheckoutService {
	byName := make(map[string]domain.PaymentProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &CheckoutService{
		cart:      cart,
		orders:    orders,
		attempts:  attempts,
		uow:       uow,
		providers: byName,
		publisher: publisher,
		topic:     topic,
		pricing:   pricing,
	}
}

// Totals 从购物车行推导金额明细
func (s *CheckoutService) Totals(lines []*cartdomain.CartLine) (subtotal, shipping, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, line := range lines {
		price := decimal.NewFromFloat(line.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)
	shipping = s.pricing.ShippingFee.Round(2)
	tax = subtotal.Mul(s.pricing.TaxRate).Round(2)
	total = subtotal.Add(shipping).Add(tax)
	return subtotal, shipping, tax, total
}

// CreateIntent 读取实时购物车并在渠道侧创建支付意图。
// 空购物车直接拒绝，不触达渠道。
func (s *CheckoutService) CreateIntent(ctx context.Context, owner cartdomain.Owner, providerName, email string) (*domain.Intent, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}

	lines, err := s.cart.GetLines(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	_, _, _, total := s.Totals(lines)
	intent, err := provider.CreateIntent(ctx, domain.IntentRequest{
		Amount:   total,
		Currency: s.pricing.Currency,
		Email:    email,
		Receipt:  "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
	})
	if err != nil {
		return nil, err
	}

	attempt := &domain.CheckoutAttempt{
		UserID:      owner.UserID,
		SessionID:   owner.SessionID,
		Provider:    provider.Name(),
		ProviderRef: intent.ProviderRef,
		Amount:      total,
		Currency:    s.pricing.Currency,
		State:       domain.AttemptIntentCreated,
	}
	if err := s.attempts.Save(ctx, attempt); err != nil {
		// 审计记录缺失不阻断支付
		logger.Warn(ctx, "Failed to record checkout attempt",
			"provider_ref", intent.ProviderRef, "error", err)
	}

	return intent, nil
}

// ConfirmPayment 校验支付结果并把购物车固化为已确认订单。
// 同一支付标识重复确认返回首次创建的订单，不会生成第二份。
func (s *CheckoutService) ConfirmPayment(ctx context.Context, owner cartdomain.Owner, providerName string,
	conf domain.Confirmation, email string, addr ShippingAddress) (*orderdomain.Order, error) {

	provider, ok := s.providers[providerName]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}

	attemptRef := conf.PaymentIntentID
	if attemptRef == "" {
		attemptRef = conf.RazorpayOrderID
	}

	paymentRef, err := provider.VerifyConfirmation(ctx, conf)
	if err != nil {
		s.markAttempt(ctx, attemptRef, domain.AttemptFailed, err.Error())
		return nil, err
	}
	s.markAttempt(ctx, attemptRef, domain.AttemptVerified, "")

	// 重放确认：支付标识已落过订单时直接返回原单
	if existing, err := s.orders.GetByPaymentRef(ctx, paymentRef); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	lines, err := s.cart.GetLines(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	subtotal, shipping, tax, total := s.Totals(lines)

	// 意图创建后购物车被改动时，渠道侧实付与当前车不符，拒单。
	// 审计记录缺失（落库曾失败）时跳过核对，不阻断支付
	if attempt, err := s.attempts.GetByProviderRef(ctx, attemptRef); err != nil {
		logger.Warn(ctx, "Failed to load checkout attempt for amount check",
			"provider_ref", attemptRef, "error", err)
	} else if attempt != nil && !attempt.Amount.Equal(total) {
		s.markAttempt(ctx, attemptRef, domain.AttemptFailed,
			fmt.Sprintf("amount mismatch: authorized %s, cart %s",
				attempt.Amount.StringFixed(2), total.StringFixed(2)))
		return nil, domain.ErrAmountMismatch
	}

	order := &orderdomain.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          owner.UserID,
		Email:           email,
		ShippingName:    addr.Name,
		ShippingLine1:   addr.Line1,
		ShippingCity:    addr.City,
		ShippingState:   addr.State,
		ShippingPostal:  addr.Postal,
		ShippingCountry: addr.Country,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Total:           total,
		Currency:        s.pricing.Currency,
		Status:          orderdomain.StatusConfirmed,
		PaymentStatus:   orderdomain.PaymentStatusPaid,
		Provider:        provider.Name(),
		PaymentRef:      paymentRef,
		Items:           orderItems(lines),
	}

	if err := s.uow.CreateOrderAndClearCart(ctx, order, owner); err != nil {
		// 并发重放会撞 payment_ref 唯一索引，回查拿首单
		if existing, lookupErr := s.orders.GetByPaymentRef(ctx, paymentRef); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	s.markAttempt(ctx, attemptRef, domain.AttemptOrderCreated, order.OrderNumber)

	if s.publisher != nil {
		event := orderdomain.OrderConfirmedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			UserID:      order.UserID,
			Email:       order.Email,
			Items:       eventItems(order.Items),
			Total:       order.Total.StringFixed(2),
			Currency:    order.Currency,
			Timestamp:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, s.topic, "order.confirmed", event); err != nil {
			logger.Warn(ctx, "Failed to publish order confirmed event",
				"order_number", order.OrderNumber, "error", err)
		}
	}

	logger.Info(ctx, "Order confirmed",
		"order_number", order.OrderNumber, "provider", provider.Name(), "total", order.Total.StringFixed(2))
	return order, nil
}

func (s *CheckoutService) markAttempt(ctx context.Context, providerRef, state, detail string) {
	if providerRef == "" {
		return
	}
	if err := s.attempts.MarkState(ctx, providerRef, state, detail); err != nil {
		logger.Warn(ctx, "Failed to update checkout attempt",
			"provider_ref", providerRef, "state", state, "error", err)
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("AJ-%s-%s", time.Now().Format("20060102"), suffix)
}

func orderItems(lines []*cartdomain.CartLine) []orderdomain.OrderItem {
	items := make([]orderdomain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, orderdomain.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Image:     line.Image,
		})
	}
	return items
}

func eventItems(items []orderdomain.OrderItem) []orderdomain.OrderItemEvent {
	out := make([]orderdomain.OrderItemEvent, 0, len(items))
	for _, item := range items {
		out = append(out, orderdomain.OrderItemEvent{
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return out
}
