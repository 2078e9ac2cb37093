package application

import (
	"context"

	"github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo    domain.CartRepository
	catalog domain.CatalogReader
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(repo domain.CartRepository, catalog domain.CatalogReader) *CartQueryService {
	return &CartQueryService{repo: repo, catalog: catalog}
}

// GetLines 返回归属者的购物车行并集。
// 每行的价格/标题/图片来自目录的实时读取而非加购时的快照，
// 展示金额始终跟随最新商品价格；结算金额由 checkout 另行独立推导。
// 两个键都为空时返回空集而非错误。
func (s *CartQueryService) GetLines(ctx context.Context, owner domain.Owner) ([]*domain.CartLine, error) {
	if !owner.Valid() {
		return []*domain.CartLine{}, nil
	}

	lines, err := s.repo.GetLines(ctx, owner.UserID, owner.SessionID)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		snapshot, err := s.catalog.Snapshot(ctx, line.ProductID, line.VariantID)
		if err != nil {
			// 商品已下架或目录暂不可用时保留加购快照
			logger.Warn(ctx, "Failed to refresh cart line from catalog",
				"product_id", line.ProductID, "error", err)
			continue
		}
		line.Price = snapshot.Price
		line.Title = snapshot.Title
		line.Image = snapshot.Image
	}

	return lines, nil
}
