package domain

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 购物车行必须物理删除。软删行的 deleted_at 仅对查询不可见，
// 行本身仍占用 uk_cart_owner_product 的键位：移除或清车后对同一
// (owner, product, variant) 再加购会走 ON DUPLICATE KEY 累加到
// 不可见行上，回读报行不存在。
func TestCartLineHasNoSoftDeleteColumn(t *testing.T) {
	typ := reflect.TypeOf(CartLine{})

	_, hasDeletedAt := typ.FieldByName("DeletedAt")
	assert.False(t, hasDeletedAt, "cart_lines must not carry a soft-delete column")

	_, hasModel := typ.FieldByName("Model")
	assert.False(t, hasModel, "embedding gorm.Model would reintroduce DeletedAt")
}

func TestOwnerKey(t *testing.T) {
	userID, sessionID := Owner{UserID: "u1", SessionID: "s1"}.Key()
	assert.Equal(t, "u1", userID)
	assert.Empty(t, sessionID)

	userID, sessionID = Owner{SessionID: "s1"}.Key()
	assert.Empty(t, userID)
	assert.Equal(t, "s1", sessionID)
}
