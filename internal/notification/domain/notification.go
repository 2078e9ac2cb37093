// Package domain 包含通知的领域模型。
package domain

import (
	"context"

	"gorm.io/gorm"
)

// 通知状态
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// 通知渠道
const (
	ChannelEmail = "EMAIL"
)

// Notification 通知发送记录
type Notification struct {
	gorm.Model
	Channel string `gorm:"type:varchar(16);not null" json:"channel"`
	Target  string `gorm:"type:varchar(255);not null" json:"target"`
	Subject string `gorm:"type:varchar(255);not null" json:"subject"`
	Content string `gorm:"type:text" json:"content"`
	Status  string `gorm:"type:varchar(16);not null;index" json:"status"`
	// 触发来源标识，如订单号
	Ref   string `gorm:"type:varchar(64);not null;default:'';index" json:"ref"`
	Error string `gorm:"type:varchar(255);not null;default:''" json:"error"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// NotificationRepository 通知记录仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
}

// Sender 通知发送接口
type Sender interface {
	// Send 发送一条通知
	Send(ctx context.Context, target, subject, content string) error
}
