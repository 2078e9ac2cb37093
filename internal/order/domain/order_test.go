package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusConfirmed, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPending, false},
		// 终态不可再迁移
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTo(t *testing.T) {
	order := &Order{Status: StatusConfirmed}

	assert.NoError(t, order.TransitionTo(StatusShipped))
	assert.Equal(t, StatusShipped, order.Status)

	// 非法迁移不改变状态
	assert.ErrorIs(t, order.TransitionTo(StatusCancelled), ErrInvalidStatusTransition)
	assert.Equal(t, StatusShipped, order.Status)

	assert.ErrorIs(t, order.TransitionTo(Status("UNKNOWN")), ErrInvalidStatus)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("PAID").Valid())
}

func TestBelongsTo(t *testing.T) {
	order := &Order{UserID: "user-1"}
	assert.True(t, order.BelongsTo("user-1"))
	assert.False(t, order.BelongsTo("user-2"))

	// 游客订单不属于任何用户
	guest := &Order{UserID: ""}
	assert.False(t, guest.BelongsTo(""))
	assert.False(t, guest.BelongsTo("user-1"))
}
