package domain

import "gorm.io/gorm"

// Product 商品实体
type Product struct {
	gorm.Model
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       float64   `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Category    string    `gorm:"column:category;type:varchar(100);index" json:"category"`
	Image       string    `gorm:"column:image;type:varchar(512)" json:"image"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	Variants    []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string { return "products" }

// Variant 商品变体，覆盖父商品的价格/库存/属性
type Variant struct {
	gorm.Model
	ProductID  uint    `gorm:"column:product_id;index;not null" json:"product_id"`
	Name       string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Price      float64 `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Stock      int     `gorm:"column:stock;not null;default:0" json:"stock"`
	Attributes string  `gorm:"column:attributes;type:text" json:"attributes"`
}

func (Variant) TableName() string { return "product_variants" }

// VariantByID 返回指定变体，不存在时返回 nil
func (p *Product) VariantByID(variantID uint) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// EffectivePrice 变体价格优先于商品价格
func (p *Product) EffectivePrice(variantID uint) float64 {
	if variantID != 0 {
		if v := p.VariantByID(variantID); v != nil {
			return v.Price
		}
	}
	return p.Price
}
