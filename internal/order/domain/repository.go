package domain

import "context"

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 插入订单（含行项目），只由 checkout 调用
	Create(ctx context.Context, order *Order) error
	// Get 按主键获取订单
	Get(ctx context.Context, id uint) (*Order, error)
	// GetByPaymentRef 按渠道支付标识获取订单，用于确认回调的幂等检查
	GetByPaymentRef(ctx context.Context, paymentRef string) (*Order, error)
	// ListByUser 获取用户订单列表
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*Order, int64, error)
	// ListAll 后台订单列表，status 为空时不过滤
	ListAll(ctx context.Context, status Status, offset, limit int) ([]*Order, int64, error)
	// Save 保存订单（状态更新）
	Save(ctx context.Context, order *Order) error
}
