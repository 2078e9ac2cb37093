package mysql

import (
	"context"

	"github.com/aurorajewels/storefront/internal/catalog/domain"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&p, id).Error
	return &p, err
}

func (r *productRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int, error) {
	var products []*domain.Product
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	q.Count(&total)
	err := q.Preload("Variants").Order("id DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, int(total), err
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Variant{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *productRepository) SaveVariant(ctx context.Context, variant *domain.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *productRepository) DeleteVariant(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Variant{}, id).Error
}

type bannerRepository struct{ db *gorm.DB }

func NewBannerRepository(db *gorm.DB) domain.BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Save(ctx context.Context, banner *domain.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *bannerRepository) GetByID(ctx context.Context, id uint) (*domain.Banner, error) {
	var b domain.Banner
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *bannerRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Banner, error) {
	var banners []*domain.Banner
	q := r.db.WithContext(ctx).Order("position ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&banners).Error
	return banners, err
}

func (r *bannerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Banner{}, id).Error
}
