package application

import (
	"context"

	"github.com/aurorajewels/storefront/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	repo domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(repo domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

// GetOrder 获取订单详情，非归属人且非管理员时拒绝
func (s *OrderQueryService) GetOrder(ctx context.Context, orderID uint, requesterID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.BelongsTo(requesterID) {
		return nil, domain.ErrNotOwner
	}
	return order, nil
}

// ListUserOrders 获取用户自己的订单列表
func (s *OrderQueryService) ListUserOrders(ctx context.Context, userID string, offset, limit int) ([]*domain.Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

// ListAllOrders 后台订单列表
func (s *OrderQueryService) ListAllOrders(ctx context.Context, status domain.Status, offset, limit int) ([]*domain.Order, int64, error) {
	return s.repo.ListAll(ctx, status, offset, limit)
}
