// Package domain 包含订单的领域模型。
// 订单是确认购买时的不可变快照：行项目、金额、地址在创建时冻结，
// 后续商品价格变化不影响已创建的订单。
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var (
	// ErrInvalidStatus 状态不在枚举范围内
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidStatusTransition 状态迁移不合法
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	// ErrNotOwner 请求者不是订单归属人
	ErrNotOwner = errors.New("order does not belong to requester")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
)

// Valid 判断状态是否在枚举范围内
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// transitions 单向状态迁移表。
// 发货流水线只向前走：PENDING → CONFIRMED → SHIPPED → DELIVERED，
// CANCELLED 只能从 PENDING/CONFIRMED 进入，终态不可再迁移。
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransitionTo 判断是否允许迁移到目标状态
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 订单实体
type Order struct {
	gorm.Model
	// 对外订单号
	OrderNumber string `gorm:"column:order_number;type:varchar(48);uniqueIndex;not null" json:"order_number"`
	// 归属用户，游客下单时为空
	UserID string `gorm:"column:user_id;type:varchar(36);index;not null;default:''" json:"user_id"`
	// 收件邮箱
	Email string `gorm:"column:email;type:varchar(255);not null" json:"email"`
	// 收货地址
	ShippingName    string `gorm:"column:shipping_name;type:varchar(255)" json:"shipping_name"`
	ShippingLine1   string `gorm:"column:shipping_line1;type:varchar(255)" json:"shipping_line1"`
	ShippingCity    string `gorm:"column:shipping_city;type:varchar(100)" json:"shipping_city"`
	ShippingState   string `gorm:"column:shipping_state;type:varchar(100)" json:"shipping_state"`
	ShippingPostal  string `gorm:"column:shipping_postal;type:varchar(20)" json:"shipping_postal"`
	ShippingCountry string `gorm:"column:shipping_country;type:varchar(100)" json:"shipping_country"`
	// 金额明细，确认时一次性计算，之后不再重算
	Subtotal decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
	Shipping decimal.Decimal `gorm:"column:shipping;type:decimal(12,2);not null" json:"shipping"`
	Tax      decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null" json:"tax"`
	Total    decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Currency string          `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	// 状态
	Status        Status        `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null" json:"payment_status"`
	// 支付渠道与渠道侧支付标识；PaymentRef 的唯一索引兜底确认回调的幂等
	Provider   string `gorm:"column:provider;type:varchar(20);not null" json:"provider"`
	PaymentRef string `gorm:"column:payment_ref;type:varchar(128);uniqueIndex;not null" json:"payment_ref"`
	// 行项目（创建时冻结的快照，与购物车无引用关系）
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行项目快照
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint    `gorm:"column:product_id;not null" json:"product_id"`
	VariantID uint    `gorm:"column:variant_id;not null;default:0" json:"variant_id"`
	Title     string  `gorm:"column:title;type:varchar(255)" json:"title"`
	Price     float64 `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	Image     string  `gorm:"column:image;type:varchar(512)" json:"image"`
}

func (OrderItem) TableName() string { return "order_items" }

// BelongsTo 判断订单是否属于给定用户
func (o *Order) BelongsTo(userID string) bool {
	return o.UserID != "" && o.UserID == userID
}

// TransitionTo 校验并执行状态迁移
func (o *Order) TransitionTo(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	o.Status = next
	return nil
}
