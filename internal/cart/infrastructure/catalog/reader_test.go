package catalog

import (
	"context"
	"testing"

	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	catalogapp "github.com/aurorajewels/storefront/internal/catalog/application"
	catalogdomain "github.com/aurorajewels/storefront/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProductRepo struct {
	products map[uint]*catalogdomain.Product
}

func (r *fakeProductRepo) Save(context.Context, *catalogdomain.Product) error { return nil }
func (r *fakeProductRepo) GetByID(_ context.Context, id uint) (*catalogdomain.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeProductRepo) List(context.Context, string, int, int) ([]*catalogdomain.Product, int, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) Delete(context.Context, uint) error { return nil }
func (r *fakeProductRepo) SaveVariant(context.Context, *catalogdomain.Variant) error {
	return nil
}
func (r *fakeProductRepo) DeleteVariant(context.Context, uint) error { return nil }

func newTestReader() cartdomain.CatalogReader {
	ring := &catalogdomain.Product{
		Name:  "Opal Ring",
		Price: 120.0,
		Image: "ring.jpg",
	}
	ring.ID = 7
	variant := catalogdomain.Variant{ProductID: 7, Name: "Size 8", Price: 135.0}
	variant.ID = 42
	ring.Variants = []catalogdomain.Variant{variant}

	repo := &fakeProductRepo{products: map[uint]*catalogdomain.Product{7: ring}}
	return NewReader(catalogapp.NewCatalogQueryService(repo, nil, nil))
}

func TestSnapshotVariantOverridesPrice(t *testing.T) {
	reader := newTestReader()

	snapshot, err := reader.Snapshot(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 135.0, snapshot.Price)
	assert.Equal(t, "Opal Ring - Size 8", snapshot.Title)
}

func TestSnapshotWithoutVariantUsesProductPrice(t *testing.T) {
	reader := newTestReader()

	snapshot, err := reader.Snapshot(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 120.0, snapshot.Price)
	assert.Equal(t, "Opal Ring", snapshot.Title)
}

func TestSnapshotUnknownVariantRejected(t *testing.T) {
	reader := newTestReader()

	// 幽灵变体不能以父商品价格入车
	_, err := reader.Snapshot(context.Background(), 7, 999)
	assert.ErrorIs(t, err, cartdomain.ErrVariantNotFound)
}

func TestSnapshotUnknownProductRejected(t *testing.T) {
	reader := newTestReader()

	_, err := reader.Snapshot(context.Background(), 404, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
