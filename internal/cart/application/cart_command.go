package application

import (
	"context"

	"github.com/aurorajewels/storefront/internal/cart/domain"
)

// AddLineCommand 加购命令
type AddLineCommand struct {
	Owner     domain.Owner
	ProductID uint
	VariantID uint
	Quantity  int
}

// UpdateQuantityCommand 修改数量命令
type UpdateQuantityCommand struct {
	Owner    domain.Owner
	LineID   uint
	Quantity int
}

// RemoveLineCommand 移除购物车行命令
type RemoveLineCommand struct {
	Owner  domain.Owner
	LineID uint
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo    domain.CartRepository
	catalog domain.CatalogReader
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(repo domain.CartRepository, catalog domain.CatalogReader) *CartCommandService {
	return &CartCommandService{repo: repo, catalog: catalog}
}

// AddLine 处理加购：同 (owner, product, variant) 已有行时累加数量
func (s *CartCommandService) AddLine(ctx context.Context, cmd AddLineCommand) (*domain.CartLine, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !cmd.Owner.Valid() {
		return nil, domain.ErrMissingOwner
	}

	// 商品必须存在，同时取加购时的快照
	snapshot, err := s.catalog.Snapshot(ctx, cmd.ProductID, cmd.VariantID)
	if err != nil {
		return nil, err
	}

	userID, sessionID := cmd.Owner.Key()
	line := &domain.CartLine{
		UserID:    userID,
		SessionID: sessionID,
		ProductID: cmd.ProductID,
		VariantID: cmd.VariantID,
		Quantity:  cmd.Quantity,
		Price:     snapshot.Price,
		Title:     snapshot.Title,
		Image:     snapshot.Image,
	}

	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

// UpdateQuantity 处理修改数量，零或负数直接拒绝
func (s *CartCommandService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) (*domain.CartLine, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !cmd.Owner.Valid() {
		return nil, domain.ErrMissingOwner
	}

	line, err := s.repo.GetLine(ctx, cmd.LineID)
	if err != nil {
		return nil, err
	}
	if line == nil || !line.OwnedBy(cmd.Owner) {
		return nil, domain.ErrLineNotFound
	}

	if err := s.repo.UpdateQuantity(ctx, cmd.LineID, cmd.Quantity); err != nil {
		return nil, err
	}
	line.Quantity = cmd.Quantity
	return line, nil
}

// RemoveLine 处理移除购物车行
func (s *CartCommandService) RemoveLine(ctx context.Context, cmd RemoveLineCommand) error {
	if !cmd.Owner.Valid() {
		return domain.ErrMissingOwner
	}

	line, err := s.repo.GetLine(ctx, cmd.LineID)
	if err != nil {
		return err
	}
	if line == nil || !line.OwnedBy(cmd.Owner) {
		return domain.ErrLineNotFound
	}

	return s.repo.DeleteLine(ctx, cmd.LineID)
}

// Clear 清空归属者的购物车。只应在订单落库成功后调用
func (s *CartCommandService) Clear(ctx context.Context, owner domain.Owner) error {
	if !owner.Valid() {
		return domain.ErrMissingOwner
	}
	return s.repo.Clear(ctx, owner.UserID, owner.SessionID)
}

// MergeSessionIntoUser 登录时把游客购物车并入用户购物车
func (s *CartCommandService) MergeSessionIntoUser(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return nil
	}
	return s.repo.MergeSessionIntoUser(ctx, sessionID, userID)
}
