package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEffectivePrice(t *testing.T) {
	product := &Product{
		Price: 100.0,
		Variants: []Variant{
			{Model: gorm.Model{ID: 1}, Name: "Gold", Price: 150.0},
			{Model: gorm.Model{ID: 2}, Name: "Silver", Price: 120.0},
		},
	}

	// 无变体时取商品价
	assert.Equal(t, 100.0, product.EffectivePrice(0))
	// 变体价覆盖商品价
	assert.Equal(t, 150.0, product.EffectivePrice(1))
	assert.Equal(t, 120.0, product.EffectivePrice(2))
	// 未知变体回落到商品价
	assert.Equal(t, 100.0, product.EffectivePrice(99))
}

func TestVariantByID(t *testing.T) {
	product := &Product{
		Variants: []Variant{{Model: gorm.Model{ID: 7}, Name: "Gold"}},
	}

	v := product.VariantByID(7)
	assert.NotNil(t, v)
	assert.Equal(t, "Gold", v.Name)
	assert.Nil(t, product.VariantByID(8))
}
