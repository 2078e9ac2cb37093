package application

import (
	"context"
	"fmt"
	"time"

	"github.com/aurorajewels/storefront/internal/catalog/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
)

// ProductCache 商品读缓存接口
type ProductCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// productCacheTTL 商品详情缓存时长
const productCacheTTL = 5 * time.Minute

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	products domain.ProductRepository
	banners  domain.BannerRepository
	cache    ProductCache
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	products domain.ProductRepository,
	banners domain.BannerRepository,
	cache ProductCache,
) *CatalogQueryService {
	return &CatalogQueryService{
		products: products,
		banners:  banners,
		cache:    cache,
	}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// GetProduct 获取商品详情（含变体），走 Redis 读缓存
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		var cached domain.Product
		found, err := s.cache.GetJSON(ctx, productCacheKey(id), &cached)
		if err != nil {
			// 缓存故障降级为直查数据库
			logger.Warn(ctx, "Product cache read failed", "product_id", id, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, productCacheKey(id), product, productCacheTTL); err != nil {
			logger.Warn(ctx, "Product cache write failed", "product_id", id, "error", err)
		}
	}

	return product, nil
}

// ListProducts 分页获取商品列表，支持按分类过滤
func (s *CatalogQueryService) ListProducts(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int, error) {
	return s.products.List(ctx, category, offset, limit)
}

// ListBanners 获取轮播图列表
func (s *CatalogQueryService) ListBanners(ctx context.Context, activeOnly bool) ([]*domain.Banner, error) {
	return s.banners.List(ctx, activeOnly)
}
