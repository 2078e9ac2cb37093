// Package domain 包含用户账户的领域模型。
package domain

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 邮箱或密码不正确
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrWeakPassword 密码长度不足
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// User 用户实体。
// UID 为对外的稳定标识（UUID），订单与购物车按 UID 归属，
// 自增主键只在库内使用。
type User struct {
	gorm.Model
	UID          string `gorm:"column:uid;type:varchar(36);uniqueIndex;not null" json:"uid"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Name         string `gorm:"column:name;type:varchar(255)" json:"name"`
	IsAdmin      bool   `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	// 默认收货地址
	AddressLine1   string `gorm:"column:address_line1;type:varchar(255)" json:"address_line1"`
	AddressCity    string `gorm:"column:address_city;type:varchar(100)" json:"address_city"`
	AddressState   string `gorm:"column:address_state;type:varchar(100)" json:"address_state"`
	AddressPostal  string `gorm:"column:address_postal;type:varchar(20)" json:"address_postal"`
	AddressCountry string `gorm:"column:address_country;type:varchar(100)" json:"address_country"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
