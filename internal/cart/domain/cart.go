// Package domain 包含购物车的领域模型。
// 购物车行以 (owner, product, variant) 为去重键：同一归属者对同一商品变体
// 重复加购只会累加数量，不会产生新行。
package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidQuantity 数量必须为正整数
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrMissingOwner 写操作必须携带用户或会话身份
	ErrMissingOwner = errors.New("cart owner requires a user id or session id")
	// ErrLineNotFound 购物车行不存在或不属于请求者
	ErrLineNotFound = errors.New("cart line not found")
	// ErrVariantNotFound 商品存在但指定变体不存在
	ErrVariantNotFound = errors.New("product variant not found")
)

// Owner 购物车归属键：登录用户或游客会话，二者取其一。
// UserID 存在时以用户为准，忽略会话。
type Owner struct {
	UserID    string
	SessionID string
}

// Valid 写操作要求至少一个身份
func (o Owner) Valid() bool {
	return o.UserID != "" || o.SessionID != ""
}

// Key 返回实际用于写入的归属列值。
// 登录用户的行不落会话键，避免与同会话的游客行混淆。
func (o Owner) Key() (userID, sessionID string) {
	if o.UserID != "" {
		return o.UserID, ""
	}
	return "", o.SessionID
}

// CartLine 购物车行
// user_id/session_id/variant_id 用空串或 0 哨兵而非 NULL，
// 保证复合唯一索引把"无变体"“无用户”当作键的一部分（MySQL 唯一索引忽略 NULL）。
// 不带软删除列：软删行仍占用 uk_cart_owner_product 的键位，
// 移除或清车后同键再加购会累加到不可见行上。删除一律为物理删除。
type CartLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;default:'';uniqueIndex:uk_cart_owner_product" json:"user_id"`
	SessionID string    `gorm:"column:session_id;type:varchar(36);not null;default:'';uniqueIndex:uk_cart_owner_product" json:"session_id"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:uk_cart_owner_product" json:"product_id"`
	// VariantID 0 表示无变体；无变体行与有变体行是不同的行
	VariantID uint `gorm:"column:variant_id;not null;default:0;uniqueIndex:uk_cart_owner_product" json:"variant_id"`
	Quantity  int  `gorm:"column:quantity;not null" json:"quantity"`
	// 加购时的商品快照，展示时会被实时读价覆盖
	Price float64 `gorm:"column:price;type:decimal(12,2)" json:"price"`
	Title string  `gorm:"column:title;type:varchar(255)" json:"title"`
	Image string  `gorm:"column:image;type:varchar(512)" json:"image"`
}

func (CartLine) TableName() string { return "cart_lines" }

// OwnedBy 判断行是否属于给定归属者
func (l *CartLine) OwnedBy(o Owner) bool {
	if o.UserID != "" && l.UserID == o.UserID {
		return true
	}
	return o.SessionID != "" && l.UserID == "" && l.SessionID == o.SessionID
}
