// Package mysql 提供通知记录的 MySQL 持久化实现。
package mysql

import (
	"context"

	"github.com/aurorajewels/storefront/internal/notification/domain"
	"gorm.io/gorm"
)

type notificationRepository struct{ db *gorm.DB }

// NewNotificationRepository 创建通知记录仓储实例
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}
