package application

import (
	"context"
	"errors"
	"testing"

	"github.com/aurorajewels/storefront/internal/notification/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotificationRepo struct {
	rows []*domain.Notification
}

func (r *memNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	if n.ID == 0 {
		n.ID = uint(len(r.rows) + 1)
		r.rows = append(r.rows, n)
	}
	return nil
}

type recordingSender struct {
	fail     bool
	sent     int
	lastTo   string
	lastSubj string
	lastBody string
}

func (s *recordingSender) Send(_ context.Context, target, subject, content string) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.sent++
	s.lastTo = target
	s.lastSubj = subject
	s.lastBody = content
	return nil
}

func confirmedEvent() orderdomain.OrderConfirmedEvent {
	return orderdomain.OrderConfirmedEvent{
		OrderID:     1,
		OrderNumber: "AJ-20260831-ABCDEF1234",
		Email:       "jo@example.com",
		Items: []orderdomain.OrderItemEvent{
			{Title: "Pearl Necklace", Price: 49.99, Quantity: 2},
		},
		Total:    "109.98",
		Currency: "AUD",
	}
}

func TestHandleOrderConfirmedSendsEmail(t *testing.T) {
	repo := &memNotificationRepo{}
	sender := &recordingSender{}
	svc := NewNotificationService(repo, sender, nil)

	require.NoError(t, svc.HandleOrderConfirmed(context.Background(), confirmedEvent()))

	assert.Equal(t, 1, sender.sent)
	assert.Equal(t, "jo@example.com", sender.lastTo)
	assert.Contains(t, sender.lastSubj, "AJ-20260831-ABCDEF1234")
	assert.Contains(t, sender.lastBody, "Pearl Necklace")
	assert.Contains(t, sender.lastBody, "109.98")

	require.Len(t, repo.rows, 1)
	assert.Equal(t, domain.StatusSent, repo.rows[0].Status)
	assert.Equal(t, "AJ-20260831-ABCDEF1234", repo.rows[0].Ref)
}

func TestHandleOrderConfirmedRecordsFailure(t *testing.T) {
	repo := &memNotificationRepo{}
	sender := &recordingSender{fail: true}
	svc := NewNotificationService(repo, sender, nil)

	err := svc.HandleOrderConfirmed(context.Background(), confirmedEvent())
	require.Error(t, err)

	require.Len(t, repo.rows, 1)
	assert.Equal(t, domain.StatusFailed, repo.rows[0].Status)
	assert.NotEmpty(t, repo.rows[0].Error)
}

func TestHandleOrderConfirmedSkipsMissingEmail(t *testing.T) {
	repo := &memNotificationRepo{}
	sender := &recordingSender{}
	svc := NewNotificationService(repo, sender, nil)

	event := confirmedEvent()
	event.Email = ""

	require.NoError(t, svc.HandleOrderConfirmed(context.Background(), event))
	assert.Zero(t, sender.sent)
	assert.Empty(t, repo.rows)
}
