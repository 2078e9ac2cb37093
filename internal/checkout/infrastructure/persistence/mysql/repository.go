// Package mysql 提供结算模块的 MySQL 持久化实现。
package mysql

import (
	"context"
	"errors"

	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/internal/checkout/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"gorm.io/gorm"
)

type attemptRepository struct{ db *gorm.DB }

// NewAttemptRepository 创建结算尝试仓储实例
func NewAttemptRepository(db *gorm.DB) domain.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Save(ctx context.Context, attempt *domain.CheckoutAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *attemptRepository) GetByProviderRef(ctx context.Context, providerRef string) (*domain.CheckoutAttempt, error) {
	var attempt domain.CheckoutAttempt
	err := r.db.WithContext(ctx).Where("provider_ref = ?", providerRef).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) MarkState(ctx context.Context, providerRef, state, detail string) error {
	return r.db.WithContext(ctx).Model(&domain.CheckoutAttempt{}).
		Where("provider_ref = ?", providerRef).
		Updates(map[string]interface{}{"state": state, "detail": detail}).Error
}

type unitOfWork struct{ db *gorm.DB }

// NewUnitOfWork 创建订单落库与清车的事务实现
func NewUnitOfWork(db *gorm.DB) domain.UnitOfWork {
	return &unitOfWork{db: db}
}

// CreateOrderAndClearCart 订单（含明细）与购物车清空在同一事务里提交
func (u *unitOfWork) CreateOrderAndClearCart(ctx context.Context, order *orderdomain.Order, owner cartdomain.Owner) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		q := tx
		switch {
		case owner.UserID != "" && owner.SessionID != "":
			q = q.Where("user_id = ? OR (session_id = ? AND user_id = '')", owner.UserID, owner.SessionID)
		case owner.UserID != "":
			q = q.Where("user_id = ?", owner.UserID)
		case owner.SessionID != "":
			q = q.Where("session_id = ? AND user_id = ''", owner.SessionID)
		default:
			return nil
		}
		return q.Delete(&cartdomain.CartLine{}).Error
	})
}
