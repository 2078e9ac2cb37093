package domain

import (
	"context"
	"time"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *User) error
	// GetByEmail 按邮箱查询，不存在时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByUID 按对外标识查询，不存在时返回 ErrUserNotFound
	GetByUID(ctx context.Context, uid string) (*User, error)
	// Save 保存用户资料
	Save(ctx context.Context, user *User) error
}

// SessionStore 登录态存储接口。
// JWT 本身无状态，这里额外记一份服务端会话用于主动登出。
type SessionStore interface {
	// Save 记录登录会话
	Save(ctx context.Context, uid, token string, ttl time.Duration) error
	// Valid 判断会话是否仍然有效
	Valid(ctx context.Context, uid, token string) (bool, error)
	// Delete 删除会话（登出）
	Delete(ctx context.Context, uid string) error
}
