// Package catalog 把商品目录查询服务适配成购物车的只读依赖
package catalog

import (
	"context"

	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	catalogapp "github.com/aurorajewels/storefront/internal/catalog/application"
)

type reader struct {
	query *catalogapp.CatalogQueryService
}

// NewReader 创建目录读取适配器
func NewReader(query *catalogapp.CatalogQueryService) cartdomain.CatalogReader {
	return &reader{query: query}
}

// Snapshot 读取商品当前价格/标题/图片；变体价格覆盖商品价格。
// 指定了变体但商品下无此变体时报错，不回落到父商品价格。
func (r *reader) Snapshot(ctx context.Context, productID, variantID uint) (*cartdomain.ProductSnapshot, error) {
	product, err := r.query.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	snapshot := &cartdomain.ProductSnapshot{
		ProductID: product.ID,
		VariantID: variantID,
		Title:     product.Name,
		Price:     product.Price,
		Image:     product.Image,
	}

	if variantID != 0 {
		v := product.VariantByID(variantID)
		if v == nil {
			return nil, cartdomain.ErrVariantNotFound
		}
		snapshot.Price = v.Price
		if v.Name != "" {
			snapshot.Title = product.Name + " - " + v.Name
		}
	}

	return snapshot, nil
}
