package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/aurorajewels/storefront/internal/cart/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

// Upsert 依赖 uk_cart_owner_product 唯一索引做原子 insert-or-increment，
// 两个并发加购不会丢失增量。
func (r *cartRepository) Upsert(ctx context.Context, line *domain.CartLine) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "session_id"}, {Name: "product_id"}, {Name: "variant_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + VALUES(quantity)"),
			"price":      gorm.Expr("VALUES(price)"),
			"title":      gorm.Expr("VALUES(title)"),
			"image":      gorm.Expr("VALUES(image)"),
			"updated_at": time.Now(),
		}),
	}).Create(line).Error
	if err != nil {
		return err
	}

	// 冲突路径下 Create 不回填累加后的状态，重读一次返回最终行
	var final domain.CartLine
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ? AND product_id = ? AND variant_id = ?",
			line.UserID, line.SessionID, line.ProductID, line.VariantID).
		First(&final).Error
	if err != nil {
		return err
	}
	*line = final
	return nil
}

func (r *cartRepository) GetLine(ctx context.Context, id uint) (*domain.CartLine, error) {
	var line domain.CartLine
	err := r.db.WithContext(ctx).First(&line, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) GetLines(ctx context.Context, userID, sessionID string) ([]*domain.CartLine, error) {
	var lines []*domain.CartLine
	q := r.db.WithContext(ctx)

	switch {
	case userID != "" && sessionID != "":
		// 过渡态：用户行与游客会话行的并集。
		// 会话条件显式限定 user_id = ''，不把已登录的行算进会话
		q = q.Where("user_id = ? OR (session_id = ? AND user_id = '')", userID, sessionID)
	case userID != "":
		q = q.Where("user_id = ?", userID)
	case sessionID != "":
		q = q.Where("session_id = ? AND user_id = ''", sessionID)
	default:
		return []*domain.CartLine{}, nil
	}

	err := q.Order("id ASC").Find(&lines).Error
	return lines, err
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&domain.CartLine{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *cartRepository) DeleteLine(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.CartLine{}, id).Error
}

func (r *cartRepository) Clear(ctx context.Context, userID, sessionID string) error {
	q := r.db.WithContext(ctx)
	switch {
	case userID != "" && sessionID != "":
		q = q.Where("user_id = ? OR (session_id = ? AND user_id = '')", userID, sessionID)
	case userID != "":
		q = q.Where("user_id = ?", userID)
	case sessionID != "":
		q = q.Where("session_id = ? AND user_id = ''", sessionID)
	default:
		return nil
	}
	return q.Delete(&domain.CartLine{}).Error
}

// MergeSessionIntoUser 把会话行重新挂到用户名下，(product, variant) 冲突时数量相加
func (r *cartRepository) MergeSessionIntoUser(ctx context.Context, sessionID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessionLines []*domain.CartLine
		if err := tx.Where("session_id = ? AND user_id = ''", sessionID).
			Find(&sessionLines).Error; err != nil {
			return err
		}

		for _, line := range sessionLines {
			merged := &domain.CartLine{
				UserID:    userID,
				SessionID: "",
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				Price:     line.Price,
				Title:     line.Title,
				Image:     line.Image,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"}, {Name: "session_id"}, {Name: "product_id"}, {Name: "variant_id"},
				},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity":   gorm.Expr("quantity + VALUES(quantity)"),
					"updated_at": time.Now(),
				}),
			}).Create(merged).Error
			if err != nil {
				return err
			}
		}

		return tx.Where("session_id = ? AND user_id = ''", sessionID).
			Delete(&domain.CartLine{}).Error
	})
}
