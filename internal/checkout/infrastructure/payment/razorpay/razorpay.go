// Package razorpay 基于 Razorpay Orders REST API 的支付渠道实现。
// 结算币种金额按固定汇率折算为 INR 后下单，
// 支付结果通过 HMAC-SHA256 签名在服务端本地校验。
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aurorajewels/storefront/internal/checkout/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

const (
	// ProviderName 渠道名
	ProviderName = "razorpay"

	baseURL = "https://api.razorpay.com/v1"
)

// Provider Razorpay 支付渠道
type Provider struct {
	client    *resty.Client
	breaker   *gobreaker.CircuitBreaker[*resty.Response]
	keyID     string
	keySecret string
	currency  string
	fxRate    decimal.Decimal
}

// NewProvider 创建 Razorpay 渠道实例。
// fxRate 为结算币种到 currency（通常为 INR）的固定汇率。
func NewProvider(keyID, keySecret, currency string, fxRate float64, timeout time.Duration) *Provider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(keyID, keySecret).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Provider{
		client:    client,
		breaker:   breaker,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		fxRate:    decimal.NewFromFloat(fxRate),
	}
}

// Name 渠道名
func (p *Provider) Name() string {
	return ProviderName
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateIntent 折算汇率后在渠道侧创建订单
func (p *Provider) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	// 折算到 INR 再换最小货币单位（paise）
	minor := req.Amount.Mul(p.fxRate).Shift(2).Round(0).IntPart()

	var order razorpayOrder
	var apiErr razorpayError
	resp, err := p.breaker.Execute(func() (*resty.Response, error) {
		return p.client.R().
			SetContext(ctx).
			SetBody(map[string]any{
				"amount":   minor,
				"currency": p.currency,
				"receipt":  req.Receipt,
			}).
			SetResult(&order).
			SetError(&apiErr).
			Post("/orders")
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay create order: %s (%s)", apiErr.Error.Description, apiErr.Error.Code)
	}

	logger.Info(ctx, "Razorpay order created", "razorpay_order_id", order.ID, "amount", order.Amount)
	return &domain.Intent{
		Provider:    ProviderName,
		ProviderRef: order.ID,
		KeyID:       p.keyID,
		Amount:      order.Amount,
		Currency:    order.Currency,
	}, nil
}

// VerifyConfirmation 按 Razorpay 规范本地校验签名：
// HMAC-SHA256(order_id + "|" + payment_id, key_secret) 的十六进制值须与回传签名一致。
func (p *Provider) VerifyConfirmation(ctx context.Context, conf domain.Confirmation) (string, error) {
	if conf.RazorpayOrderID == "" || conf.RazorpayPaymentID == "" || conf.RazorpaySignature == "" {
		return "", domain.ErrPaymentVerification
	}

	expected := Signature(conf.RazorpayOrderID, conf.RazorpayPaymentID, p.keySecret)
	if !hmac.Equal([]byte(expected), []byte(conf.RazorpaySignature)) {
		logger.Warn(ctx, "Razorpay signature mismatch",
			"razorpay_order_id", conf.RazorpayOrderID, "payment_id", conf.RazorpayPaymentID)
		return "", domain.ErrPaymentVerification
	}

	return conf.RazorpayPaymentID, nil
}

// Signature 计算支付确认签名
func Signature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
