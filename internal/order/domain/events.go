package domain

import (
	"context"
	"time"
)

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// OrderItemEvent 事件中的行项目
type OrderItemEvent struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderConfirmedEvent 订单确认事件，通知服务据此发送确认邮件
type OrderConfirmedEvent struct {
	OrderID     uint             `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	UserID      string           `json:"user_id"`
	Email       string           `json:"email"`
	Items       []OrderItemEvent `json:"items"`
	Total       string           `json:"total"`
	Currency    string           `json:"currency"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	Timestamp   time.Time `json:"timestamp"`
}
