package domain

import (
	"context"

	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
)

// UnitOfWork 订单落库与购物车清空的事务边界。
// 两者要么同时生效，要么都不生效，防止支付成功后购物车残留
// 或订单未落库而购物车已清空。
type UnitOfWork interface {
	// CreateOrderAndClearCart 在单个数据库事务里创建订单并清空归属方的购物车。
	// payment_ref 撞唯一索引时返回 orderdomain 层的已有订单语义由调用方处理。
	CreateOrderAndClearCart(ctx context.Context, order *orderdomain.Order, owner cartdomain.Owner) error
}
