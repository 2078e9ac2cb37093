// Package http 提供结算接口的 HTTP 处理器。
package http

import (
	"errors"
	"net/http"

	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/internal/checkout/application"
	"github.com/aurorajewels/storefront/internal/checkout/domain"
	"github.com/aurorajewels/storefront/internal/checkout/infrastructure/payment/razorpay"
	"github.com/aurorajewels/storefront/internal/checkout/infrastructure/payment/stripe"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/metrics"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler 结算 HTTP 处理器
type CheckoutHandler struct {
	svc     *application.CheckoutService
	metrics *metrics.Metrics
}

// NewCheckoutHandler 创建结算处理器实例
func NewCheckoutHandler(svc *application.CheckoutService, m *metrics.Metrics) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, metrics: m}
}

// RegisterRoutes 注册路由，游客与登录用户都可结算
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create-payment-intent", h.CreateStripeIntent)
	router.POST("/confirm-payment", h.ConfirmStripePayment)
	router.POST("/create-razorpay-order", h.CreateRazorpayOrder)
	router.POST("/verify-razorpay-payment", h.VerifyRazorpayPayment)
}

func ownerFromContext(c *gin.Context) cartdomain.Owner {
	return cartdomain.Owner{
		UserID:    c.GetString(middleware.UserIDKey),
		SessionID: c.GetString(middleware.SessionIDKey),
	}
}

// CreateIntentRequest 创建支付意图请求，金额不由客户端提供
type CreateIntentRequest struct {
	Email string `json:"email"`
}

// ShippingRequest 收货地址请求
type ShippingRequest struct {
	Name    string `json:"name" binding:"required"`
	Line1   string `json:"line1" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state"`
	Postal  string `json:"postal" binding:"required"`
	Country string `json:"country" binding:"required"`
}

func (r ShippingRequest) toAddress() application.ShippingAddress {
	return application.ShippingAddress{
		Name:    r.Name,
		Line1:   r.Line1,
		City:    r.City,
		State:   r.State,
		Postal:  r.Postal,
		Country: r.Country,
	}
}

// CreateStripeIntent 创建 Stripe PaymentIntent
func (h *CheckoutHandler) CreateStripeIntent(c *gin.Context) {
	h.createIntent(c, stripe.ProviderName)
}

// CreateRazorpayOrder 创建 Razorpay 渠道订单
func (h *CheckoutHandler) CreateRazorpayOrder(c *gin.Context) {
	h.createIntent(c, razorpay.ProviderName)
}

func (h *CheckoutHandler) createIntent(c *gin.Context, provider string) {
	// 请求体可省略，邮箱为可选字段
	var req CreateIntentRequest
	_ = c.ShouldBindJSON(&req)

	intent, err := h.svc.CreateIntent(c.Request.Context(), ownerFromContext(c), provider, req.Email)
	if err != nil {
		h.failCheckout(c, provider, "create_intent", err)
		return
	}

	h.metrics.PaymentIntents.WithLabelValues(provider).Inc()
	response.Success(c, intent)
}

// ConfirmStripeRequest Stripe 支付确认请求
type ConfirmStripeRequest struct {
	PaymentIntentID string          `json:"payment_intent_id" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	Shipping        ShippingRequest `json:"shipping" binding:"required"`
}

// ConfirmStripePayment 确认 Stripe 支付并固化订单
func (h *CheckoutHandler) ConfirmStripePayment(c *gin.Context) {
	var req ConfirmStripeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	h.confirm(c, stripe.ProviderName, domain.Confirmation{
		PaymentIntentID: req.PaymentIntentID,
	}, req.Email, req.Shipping.toAddress())
}

// VerifyRazorpayRequest Razorpay 支付确认请求
type VerifyRazorpayRequest struct {
	RazorpayOrderID   string          `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string          `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string          `json:"razorpay_signature" binding:"required"`
	Email             string          `json:"email" binding:"required,email"`
	Shipping          ShippingRequest `json:"shipping" binding:"required"`
}

// VerifyRazorpayPayment 校验 Razorpay 签名并固化订单
func (h *CheckoutHandler) VerifyRazorpayPayment(c *gin.Context) {
	var req VerifyRazorpayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	h.confirm(c, razorpay.ProviderName, domain.Confirmation{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	}, req.Email, req.Shipping.toAddress())
}

func (h *CheckoutHandler) confirm(c *gin.Context, provider string, conf domain.Confirmation,
	email string, addr application.ShippingAddress) {

	order, err := h.svc.ConfirmPayment(c.Request.Context(), ownerFromContext(c), provider, conf, email, addr)
	if err != nil {
		h.failCheckout(c, provider, "confirm", err)
		return
	}

	h.metrics.OrdersTotal.Inc()
	response.Created(c, order)
}

func (h *CheckoutHandler) failCheckout(c *gin.Context, provider, stage string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		h.metrics.CheckoutFailures.WithLabelValues("empty_cart").Inc()
		response.ErrorWithStatus(c, http.StatusBadRequest, "cart is empty", "")
	case errors.Is(err, domain.ErrUnknownProvider):
		h.metrics.CheckoutFailures.WithLabelValues("unknown_provider").Inc()
		response.ErrorWithStatus(c, http.StatusBadRequest, "unknown payment provider", "")
	case errors.Is(err, domain.ErrPaymentVerification):
		h.metrics.CheckoutFailures.WithLabelValues("verification_failed").Inc()
		response.ErrorWithStatus(c, http.StatusBadRequest, "payment verification failed", "")
	case errors.Is(err, domain.ErrAmountMismatch):
		h.metrics.CheckoutFailures.WithLabelValues("amount_mismatch").Inc()
		response.ErrorWithStatus(c, http.StatusConflict, "cart changed after payment was authorized", "")
	default:
		h.metrics.CheckoutFailures.WithLabelValues("internal").Inc()
		logger.Error(c.Request.Context(), "Checkout failed",
			"provider", provider, "stage", stage, "error", err)
		response.Error(c, "checkout failed")
	}
}
