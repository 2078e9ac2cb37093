// Package domain 包含结算流程的领域模型。
// 结算把一个实时购物车恰好一次地转换为已确认订单，
// 支付渠道以多态接口接入，同一流程适配不同网关。
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart 空购物车不允许结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentVerification 渠道侧确认缺失、不一致或签名无效
	ErrPaymentVerification = errors.New("payment could not be verified")
	// ErrUnknownProvider 未知的支付渠道
	ErrUnknownProvider = errors.New("unknown payment provider")
	// ErrAmountMismatch 确认时的购物车总额与创建意图时授权的金额不一致
	ErrAmountMismatch = errors.New("cart total no longer matches the authorized amount")
)

// IntentRequest 创建支付意图的入参。
// 金额由服务端从实时购物车推导，客户端报文中的金额一律忽略。
type IntentRequest struct {
	// 结算币种总金额
	Amount decimal.Decimal
	// 结算币种
	Currency string
	// 买家邮箱
	Email string
	// 渠道侧收据/描述标识
	Receipt string
}

// Intent 渠道侧支付意图，返回给客户端驱动渠道自己的确认 UI
type Intent struct {
	// 渠道名
	Provider string `json:"provider"`
	// 渠道侧意图/订单标识
	ProviderRef string `json:"provider_ref"`
	// Stripe 客户端确认密钥
	ClientSecret string `json:"client_secret,omitempty"`
	// Razorpay 公钥 Key ID
	KeyID string `json:"key_id,omitempty"`
	// 渠道侧最小货币单位金额
	Amount int64 `json:"amount"`
	// 渠道侧币种
	Currency string `json:"currency"`
}

// Confirmation 客户端回传的支付确认载荷。
// 载荷本身不可信，必须经 VerifyConfirmation 与渠道侧核对。
type Confirmation struct {
	// Stripe payment intent ID
	PaymentIntentID string
	// Razorpay 订单/支付/签名三元组
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// PaymentProvider 支付渠道接口
type PaymentProvider interface {
	// Name 渠道名
	Name() string
	// CreateIntent 在渠道侧创建支付意图
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	// VerifyConfirmation 与渠道侧独立核对支付结果，
	// 通过时返回渠道侧支付标识（订单幂等键）
	VerifyConfirmation(ctx context.Context, conf Confirmation) (string, error)
}
