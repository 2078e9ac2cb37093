// Package stripe 基于 Stripe PaymentIntents REST API 的支付渠道实现。
package stripe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aurorajewels/storefront/internal/checkout/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

const (
	// ProviderName 渠道名
	ProviderName = "stripe"

	baseURL = "https://api.stripe.com/v1"
)

// Provider Stripe 支付渠道
type Provider struct {
	client    *resty.Client
	breaker   *gobreaker.CircuitBreaker[*resty.Response]
	secretKey string
}

// NewProvider 创建 Stripe 渠道实例
func NewProvider(secretKey string, timeout time.Duration) *Provider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(secretKey, "").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Provider{client: client, breaker: breaker, secretKey: secretKey}
}

// Name 渠道名
func (p *Provider) Name() string {
	return ProviderName
}

type paymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateIntent 创建 PaymentIntent，金额换算为最小货币单位
func (p *Provider) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	minor := req.Amount.Shift(2).Round(0).IntPart()

	var intent paymentIntent
	var apiErr stripeError
	resp, err := p.breaker.Execute(func() (*resty.Response, error) {
		return p.client.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"amount":        fmt.Sprintf("%d", minor),
				"currency":      strings.ToLower(req.Currency),
				"receipt_email": req.Email,
				"description":   req.Receipt,
			}).
			SetResult(&intent).
			SetError(&apiErr).
			Post("/payment_intents")
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe create intent: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
	}

	logger.Info(ctx, "Stripe payment intent created", "intent_id", intent.ID, "amount", intent.Amount)
	return &domain.Intent{
		Provider:     ProviderName,
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}

// VerifyConfirmation 回查 PaymentIntent 状态，只认渠道侧 succeeded
func (p *Provider) VerifyConfirmation(ctx context.Context, conf domain.Confirmation) (string, error) {
	if conf.PaymentIntentID == "" {
		return "", domain.ErrPaymentVerification
	}

	var intent paymentIntent
	var apiErr stripeError
	resp, err := p.breaker.Execute(func() (*resty.Response, error) {
		return p.client.R().
			SetContext(ctx).
			SetResult(&intent).
			SetError(&apiErr).
			Get("/payment_intents/" + conf.PaymentIntentID)
	})
	if err != nil {
		return "", fmt.Errorf("stripe verify: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("stripe verify: %s: %w", apiErr.Error.Message, domain.ErrPaymentVerification)
	}
	if intent.Status != "succeeded" {
		logger.Warn(ctx, "Stripe intent not succeeded", "intent_id", intent.ID, "status", intent.Status)
		return "", domain.ErrPaymentVerification
	}

	return intent.ID, nil
}
