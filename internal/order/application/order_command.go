package application

import (
	"context"
	"time"

	"github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
)

// UpdateStatusCommand 后台更新订单状态命令
type UpdateStatusCommand struct {
	OrderID   uint
	NewStatus string
}

// OrderCommandService 处理订单状态相关的命令操作（仅后台使用，订单创建走 checkout）
type OrderCommandService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	topic     string
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(repo domain.OrderRepository, publisher domain.EventPublisher, topic string) *OrderCommandService {
	return &OrderCommandService{repo: repo, publisher: publisher, topic: topic}
}

// UpdateStatus 校验并执行状态迁移。
// 非法状态或非法迁移时不做任何变更。
func (s *OrderCommandService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*domain.Order, error) {
	next := domain.Status(cmd.NewStatus)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.repo.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.TransitionTo(next); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.OrderStatusChangedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			OldStatus:   oldStatus,
			NewStatus:   next,
			Timestamp:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, s.topic, "order.status.changed", event); err != nil {
			logger.Warn(ctx, "Failed to publish order status event",
				"order_id", order.ID, "error", err)
		}
	}

	return order, nil
}
