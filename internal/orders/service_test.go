package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

type stubOrderRepo struct {
	order          *models.Order
	cancelledCalls int
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) OrderRepository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	panic("not implemented")
}

func (s *stubOrderRepo) FindForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID || s.order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if s.order == nil || s.order.UserID != userID {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	panic("not implemented")
}

func (s *stubOrderRepo) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	panic("not implemented")
}

func (s *stubOrderRepo) MarkCancelled(ctx context.Context, orderID uuid.UUID) error {
	s.cancelledCalls++
	now := time.Now()
	s.order.Status = enums.OrderStatusCancelled
	s.order.CancelledAt = &now
	return nil
}

func newOrderFixture(t *testing.T, status enums.OrderStatus) (Service, *stubOrderRepo) {
	t.Helper()
	repo := &stubOrderRepo{order: &models.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: status,
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestCancelPendingOrder(t *testing.T) {
	svc, repo := newOrderFixture(t, enums.OrderStatusPending)

	order, err := svc.Cancel(context.Background(), repo.order.UserID, repo.order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if order.Status != enums.OrderStatusCancelled || order.CancelledAt == nil {
		t.Fatalf("order not cancelled: %+v", order)
	}
}

func TestCancelShippedOrderRejected(t *testing.T) {
	svc, repo := newOrderFixture(t, enums.OrderStatusShipped)

	_, err := svc.Cancel(context.Background(), repo.order.UserID, repo.order.ID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.cancelledCalls != 0 {
		t.Fatal("shipped order must not be cancelled")
	}
}

func TestGetForeignOrderNotFound(t *testing.T) {
	svc, repo := newOrderFixture(t, enums.OrderStatusPending)

	_, err := svc.Get(context.Background(), uuid.New(), repo.order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for a foreign order, got %v", err)
	}
}
