package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	// Upsert 原子插入或累加数量。并发加购依赖存储层的
	// INSERT ... ON DUPLICATE KEY UPDATE，不做读-改-写。
	Upsert(ctx context.Context, line *CartLine) error
	// GetLine 按主键获取单行
	GetLine(ctx context.Context, id uint) (*CartLine, error)
	// GetLines 返回用户行与会话行的并集，两个键至少传一个；都为空时返回空集
	GetLines(ctx context.Context, userID, sessionID string) ([]*CartLine, error)
	// UpdateQuantity 更新行数量
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	// DeleteLine 删除单行
	DeleteLine(ctx context.Context, id uint) error
	// Clear 按归属键批量删除，任一键匹配即删
	Clear(ctx context.Context, userID, sessionID string) error
	// MergeSessionIntoUser 登录时把会话购物车并入用户购物车，
	// (product, variant) 冲突时数量相加
	MergeSessionIntoUser(ctx context.Context, sessionID, userID string) error
}

// ProductSnapshot 购物车展示用的商品实时快照
type ProductSnapshot struct {
	ProductID uint
	VariantID uint
	Title     string
	Price     float64
	Image     string
}

// CatalogReader 购物车对商品目录的只读依赖
type CatalogReader interface {
	Snapshot(ctx context.Context, productID, variantID uint) (*ProductSnapshot, error)
}
