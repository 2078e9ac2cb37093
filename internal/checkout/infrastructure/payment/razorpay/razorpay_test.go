package razorpay

import (
	"context"
	"testing"
	"time"

	"github.com/aurorajewels/storefront/internal/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func newTestProvider() *Provider {
	return NewProvider("rzp_test_key", testSecret, "INR", 60.0, 5*time.Second)
}

func TestVerifyConfirmationAcceptsValidSignature(t *testing.T) {
	p := newTestProvider()

	sig := Signature("order_abc", "pay_xyz", testSecret)
	ref, err := p.VerifyConfirmation(context.Background(), domain.Confirmation{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: sig,
	})

	require.NoError(t, err)
	assert.Equal(t, "pay_xyz", ref)
}

func TestVerifyConfirmationRejectsTamperedSignature(t *testing.T) {
	p := newTestProvider()

	sig := Signature("order_abc", "pay_xyz", testSecret)
	_, err := p.VerifyConfirmation(context.Background(), domain.Confirmation{
		// 换了 payment_id，签名不再匹配
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_other",
		RazorpaySignature: sig,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)

	_, err = p.VerifyConfirmation(context.Background(), domain.Confirmation{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "deadbeef",
	})
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
}

func TestVerifyConfirmationRejectsWrongSecret(t *testing.T) {
	p := newTestProvider()

	sig := Signature("order_abc", "pay_xyz", "other_secret")
	_, err := p.VerifyConfirmation(context.Background(), domain.Confirmation{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: sig,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
}

func TestVerifyConfirmationRequiresAllFields(t *testing.T) {
	p := newTestProvider()

	cases := []domain.Confirmation{
		{},
		{RazorpayOrderID: "order_abc"},
		{RazorpayOrderID: "order_abc", RazorpayPaymentID: "pay_xyz"},
		{RazorpayPaymentID: "pay_xyz", RazorpaySignature: "sig"},
	}
	for _, conf := range cases {
		_, err := p.VerifyConfirmation(context.Background(), conf)
		assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	}
}
