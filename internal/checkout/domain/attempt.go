package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 结算尝试状态
const (
	AttemptIntentCreated = "INTENT_CREATED"
	AttemptVerified      = "VERIFIED"
	AttemptOrderCreated  = "ORDER_CREATED"
	AttemptFailed        = "FAILED"
)

// CheckoutAttempt 结算尝试审计记录。
// 每次创建支付意图落一行，后续确认推进状态，用于对账与排查。
type CheckoutAttempt struct {
	gorm.Model
	UserID      string          `gorm:"type:varchar(64);not null;default:'';index" json:"user_id"`
	SessionID   string          `gorm:"type:varchar(64);not null;default:'';index" json:"session_id"`
	Provider    string          `gorm:"type:varchar(32);not null" json:"provider"`
	ProviderRef string          `gorm:"type:varchar(128);not null;index" json:"provider_ref"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(8);not null" json:"currency"`
	State       string          `gorm:"type:varchar(32);not null" json:"state"`
	Detail      string          `gorm:"type:varchar(255);not null;default:''" json:"detail"`
}

// TableName 指定表名
func (CheckoutAttempt) TableName() string {
	return "checkout_attempts"
}

// AttemptRepository 结算尝试仓储接口
type AttemptRepository interface {
	// Save 保存结算尝试
	Save(ctx context.Context, attempt *CheckoutAttempt) error
	// GetByProviderRef 按渠道标识查询尝试记录，不存在时返回 (nil, nil)
	GetByProviderRef(ctx context.Context, providerRef string) (*CheckoutAttempt, error)
	// MarkState 按渠道标识推进状态，找不到记录时静默返回
	MarkState(ctx context.Context, providerRef, state, detail string) error
}
