package application

import (
	"context"
	"time"

	"github.com/aurorajewels/storefront/internal/catalog/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Image       string
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Image       string
	Active      bool
}

// SaveVariantCommand 新增或更新商品变体命令
type SaveVariantCommand struct {
	ID         uint
	ProductID  uint
	Name       string
	Price      float64
	Stock      int
	Attributes string
}

// SaveBannerCommand 新增或更新轮播图命令
type SaveBannerCommand struct {
	ID       uint
	Title    string
	Image    string
	Link     string
	Position int
	Active   bool
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	products  domain.ProductRepository
	banners   domain.BannerRepository
	publisher domain.EventPublisher
	cache     ProductCache
	topic     string
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	banners domain.BannerRepository,
	publisher domain.EventPublisher,
	cache ProductCache,
	topic string,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:  products,
		banners:   banners,
		publisher: publisher,
		cache:     cache,
		topic:     topic,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (uint, error) {
	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
		Image:       cmd.Image,
		Active:      true,
	}

	if err := s.products.Save(ctx, product); err != nil {
		return 0, err
	}

	event := domain.ProductCreatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		Category:  product.Category,
		Timestamp: time.Now(),
	}
	s.publish(ctx, "product.created", event)

	return product.ID, nil
}

// UpdateProduct 处理更新商品
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) error {
	product, err := s.products.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	oldStock := product.Stock

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Price = cmd.Price
	product.Stock = cmd.Stock
	product.Category = cmd.Category
	product.Image = cmd.Image
	product.Active = cmd.Active

	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)

	event := domain.ProductUpdatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		Category:  product.Category,
		Timestamp: time.Now(),
	}
	s.publish(ctx, "product.updated", event)

	if oldStock != product.Stock {
		stockEvent := domain.ProductStockChangedEvent{
			ProductID: product.ID,
			OldStock:  oldStock,
			NewStock:  product.Stock,
			Timestamp: time.Now(),
		}
		s.publish(ctx, "product.stock.changed", stockEvent)
	}

	return nil
}

// DeleteProduct 处理删除商品
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// SaveVariant 处理新增或更新商品变体
func (s *CatalogCommandService) SaveVariant(ctx context.Context, cmd SaveVariantCommand) (uint, error) {
	// 父商品必须存在
	if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
		return 0, err
	}

	variant := &domain.Variant{
		ProductID:  cmd.ProductID,
		Name:       cmd.Name,
		Price:      cmd.Price,
		Stock:      cmd.Stock,
		Attributes: cmd.Attributes,
	}
	variant.ID = cmd.ID

	if err := s.products.SaveVariant(ctx, variant); err != nil {
		return 0, err
	}
	s.invalidate(ctx, cmd.ProductID)
	return variant.ID, nil
}

// DeleteVariant 处理删除商品变体
func (s *CatalogCommandService) DeleteVariant(ctx context.Context, productID, variantID uint) error {
	if err := s.products.DeleteVariant(ctx, variantID); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

// SaveBanner 处理新增或更新轮播图
func (s *CatalogCommandService) SaveBanner(ctx context.Context, cmd SaveBannerCommand) (uint, error) {
	banner := &domain.Banner{
		Title:    cmd.Title,
		Image:    cmd.Image,
		Link:     cmd.Link,
		Position: cmd.Position,
		Active:   cmd.Active,
	}
	banner.ID = cmd.ID

	if err := s.banners.Save(ctx, banner); err != nil {
		return 0, err
	}
	return banner.ID, nil
}

// DeleteBanner 处理删除轮播图
func (s *CatalogCommandService) DeleteBanner(ctx context.Context, id uint) error {
	return s.banners.Delete(ctx, id)
}

// publish 发布事件，失败仅记录日志不阻断主流程
func (s *CatalogCommandService) publish(ctx context.Context, eventType string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, s.topic, eventType, event); err != nil {
		logger.Warn(ctx, "Failed to publish catalog event", "event", eventType, "error", err)
	}
}

// invalidate 使商品详情缓存失效
func (s *CatalogCommandService) invalidate(ctx context.Context, productID uint) {
	if s.cache == nil {
		return
	}
	key := productCacheKey(productID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "Failed to invalidate product cache", "key", key, "error", err)
	}
}
