package domain

import "context"

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*Product, int, error)
	Delete(ctx context.Context, id uint) error
	SaveVariant(ctx context.Context, variant *Variant) error
	DeleteVariant(ctx context.Context, id uint) error
}

// BannerRepository 轮播图仓储接口
type BannerRepository interface {
	Save(ctx context.Context, banner *Banner) error
	GetByID(ctx context.Context, id uint) (*Banner, error)
	List(ctx context.Context, activeOnly bool) ([]*Banner, error)
	Delete(ctx context.Context, id uint) error
}
