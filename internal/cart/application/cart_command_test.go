package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineKey struct {
	userID    string
	sessionID string
	productID uint
	variantID uint
}

// memCartRepo 内存仓储，复刻 ON DUPLICATE KEY 的累加语义
type memCartRepo struct {
	nextID uint
	lines  map[lineKey]*domain.CartLine
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{nextID: 1, lines: map[lineKey]*domain.CartLine{}}
}

func keyOf(l *domain.CartLine) lineKey {
	return lineKey{l.UserID, l.SessionID, l.ProductID, l.VariantID}
}

func (r *memCartRepo) Upsert(_ context.Context, line *domain.CartLine) error {
	if existing, ok := r.lines[keyOf(line)]; ok {
		existing.Quantity += line.Quantity
		existing.Price = line.Price
		existing.Title = line.Title
		existing.Image = line.Image
		*line = *existing
		return nil
	}
	line.ID = r.nextID
	r.nextID++
	stored := *line
	r.lines[keyOf(line)] = &stored
	return nil
}

func (r *memCartRepo) GetLine(_ context.Context, id uint) (*domain.CartLine, error) {
	for _, l := range r.lines {
		if l.ID == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memCartRepo) GetLines(_ context.Context, userID, sessionID string) ([]*domain.CartLine, error) {
	var out []*domain.CartLine
	for _, l := range r.lines {
		if (userID != "" && l.UserID == userID) ||
			(sessionID != "" && l.UserID == "" && l.SessionID == sessionID) {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memCartRepo) UpdateQuantity(_ context.Context, id uint, quantity int) error {
	for _, l := range r.lines {
		if l.ID == id {
			l.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *memCartRepo) DeleteLine(_ context.Context, id uint) error {
	for k, l := range r.lines {
		if l.ID == id {
			delete(r.lines, k)
			return nil
		}
	}
	return nil
}

func (r *memCartRepo) Clear(_ context.Context, userID, sessionID string) error {
	for k, l := range r.lines {
		if (userID != "" && l.UserID == userID) ||
			(sessionID != "" && l.UserID == "" && l.SessionID == sessionID) {
			delete(r.lines, k)
		}
	}
	return nil
}

func (r *memCartRepo) MergeSessionIntoUser(ctx context.Context, sessionID, userID string) error {
	sessionLines, _ := r.GetLines(ctx, "", sessionID)
	for _, l := range sessionLines {
		merged := *l
		merged.UserID = userID
		merged.SessionID = ""
		if err := r.Upsert(ctx, &merged); err != nil {
			return err
		}
	}
	return r.Clear(ctx, "", sessionID)
}

// stubCatalog 固定价格的目录读取桩
type stubCatalog struct {
	missing         map[uint]bool
	missingVariants map[uint]bool
	prices          map[uint]float64
}

func (s *stubCatalog) Snapshot(_ context.Context, productID, variantID uint) (*domain.ProductSnapshot, error) {
	if s.missing[productID] {
		return nil, errors.New("product not found")
	}
	if variantID != 0 && s.missingVariants[variantID] {
		return nil, domain.ErrVariantNotFound
	}
	price := 100.0
	if p, ok := s.prices[productID]; ok {
		price = p
	}
	return &domain.ProductSnapshot{
		ProductID: productID,
		VariantID: variantID,
		Title:     fmt.Sprintf("Product %d", productID),
		Price:     price,
		Image:     "img.jpg",
	}, nil
}

func newTestServices(repo domain.CartRepository) (*CartCommandService, *CartQueryService) {
	catalog := &stubCatalog{missing: map[uint]bool{}, prices: map[uint]float64{}}
	return NewCartCommandService(repo, catalog), NewCartQueryService(repo, catalog)
}

func TestAddLineAccumulatesQuantity(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)
	owner := domain.Owner{SessionID: "sess-1"}

	first, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 3})
	require.NoError(t, err)

	// 重复加购累加到同一行，不产生新行
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	lines, err := repo.GetLines(context.Background(), "", "sess-1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddLineVariantsAreDistinctLines(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)
	owner := domain.Owner{UserID: "user-1"}

	_, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, VariantID: 0, Quantity: 1})
	require.NoError(t, err)
	_, err = cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, VariantID: 42, Quantity: 1})
	require.NoError(t, err)

	lines, err := repo.GetLines(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddLineValidation(t *testing.T) {
	cmd, _ := newTestServices(newMemCartRepo())

	_, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "s"}, ProductID: 1, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "s"}, ProductID: 1, Quantity: -3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = cmd.AddLine(context.Background(), AddLineCommand{ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrMissingOwner)
}

func TestAddLineUnknownProduct(t *testing.T) {
	repo := newMemCartRepo()
	catalog := &stubCatalog{missing: map[uint]bool{9: true}}
	cmd := NewCartCommandService(repo, catalog)

	_, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "s"}, ProductID: 9, Quantity: 1,
	})
	assert.Error(t, err)
	assert.Empty(t, repo.lines)
}

func TestAddLineUnknownVariant(t *testing.T) {
	repo := newMemCartRepo()
	catalog := &stubCatalog{missingVariants: map[uint]bool{99: true}}
	cmd := NewCartCommandService(repo, catalog)

	_, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "s"}, ProductID: 7, VariantID: 99, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
	assert.Empty(t, repo.lines)
}

func TestRemoveLineThenAddStartsFresh(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)
	owner := domain.Owner{SessionID: "sess-1"}

	line, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, cmd.RemoveLine(context.Background(), RemoveLineCommand{Owner: owner, LineID: line.ID}))

	// 移除后同键加购必须从零开始，不能累加到已删的行上
	again, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, again.Quantity)

	lines, err := repo.GetLines(context.Background(), "", "sess-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestClearThenAddStartsFresh(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)
	owner := domain.Owner{SessionID: "sess-1"}

	_, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, cmd.Clear(context.Background(), owner))

	// 下单清车后同一商品要能再次购买
	again, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, again.Quantity)
}

func TestUpdateQuantityOwnershipEnforced(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)

	line, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "sess-1"}, ProductID: 1, Quantity: 1,
	})
	require.NoError(t, err)

	// 其他会话不能改别人的行
	_, err = cmd.UpdateQuantity(context.Background(), UpdateQuantityCommand{
		Owner: domain.Owner{SessionID: "sess-2"}, LineID: line.ID, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrLineNotFound)

	updated, err := cmd.UpdateQuantity(context.Background(), UpdateQuantityCommand{
		Owner: domain.Owner{SessionID: "sess-1"}, LineID: line.ID, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestRemoveLineOwnershipEnforced(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)

	line, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{UserID: "user-1"}, ProductID: 1, Quantity: 1,
	})
	require.NoError(t, err)

	err = cmd.RemoveLine(context.Background(), RemoveLineCommand{
		Owner: domain.Owner{UserID: "user-2"}, LineID: line.ID,
	})
	assert.ErrorIs(t, err, domain.ErrLineNotFound)

	err = cmd.RemoveLine(context.Background(), RemoveLineCommand{
		Owner: domain.Owner{UserID: "user-1"}, LineID: line.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.lines)
}

func TestMergeSessionIntoUserSumsQuantities(t *testing.T) {
	repo := newMemCartRepo()
	cmd, _ := newTestServices(repo)

	_, err := cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{SessionID: "sess-1"}, ProductID: 7, Quantity: 2,
	})
	require.NoError(t, err)
	_, err = cmd.AddLine(context.Background(), AddLineCommand{
		Owner: domain.Owner{UserID: "user-1"}, ProductID: 7, Quantity: 3,
	})
	require.NoError(t, err)

	require.NoError(t, cmd.MergeSessionIntoUser(context.Background(), "sess-1", "user-1"))

	userLines, err := repo.GetLines(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Len(t, userLines, 1)
	assert.Equal(t, 5, userLines[0].Quantity)

	sessionLines, err := repo.GetLines(context.Background(), "", "sess-1")
	require.NoError(t, err)
	assert.Empty(t, sessionLines)
}

func TestMergeNoopWithoutBothKeys(t *testing.T) {
	cmd, _ := newTestServices(newMemCartRepo())
	assert.NoError(t, cmd.MergeSessionIntoUser(context.Background(), "", "user-1"))
	assert.NoError(t, cmd.MergeSessionIntoUser(context.Background(), "sess-1", ""))
}

func TestGetLinesUsesLivePrices(t *testing.T) {
	repo := newMemCartRepo()
	catalog := &stubCatalog{prices: map[uint]float64{7: 100.0}}
	cmd := NewCartCommandService(repo, catalog)
	query := NewCartQueryService(repo, catalog)
	owner := domain.Owner{SessionID: "sess-1"}

	_, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 1})
	require.NoError(t, err)

	// 加购后改价，读取时应返回新价
	catalog.prices[7] = 150.0
	lines, err := query.GetLines(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 150.0, lines[0].Price)
}

func TestGetLinesEmptyOwnerReturnsEmpty(t *testing.T) {
	_, query := newTestServices(newMemCartRepo())
	lines, err := query.GetLines(context.Background(), domain.Owner{})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGetLinesKeepsSnapshotWhenCatalogFails(t *testing.T) {
	repo := newMemCartRepo()
	catalog := &stubCatalog{prices: map[uint]float64{7: 100.0}, missing: map[uint]bool{}}
	cmd := NewCartCommandService(repo, catalog)
	query := NewCartQueryService(repo, catalog)
	owner := domain.Owner{SessionID: "sess-1"}

	_, err := cmd.AddLine(context.Background(), AddLineCommand{Owner: owner, ProductID: 7, Quantity: 1})
	require.NoError(t, err)

	// 商品下架后查询不报错，保留加购时的快照
	catalog.missing[7] = true
	lines, err := query.GetLines(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 100.0, lines[0].Price)
}
