package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
)

// Repository exposes persistence operations for payment sessions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment session repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) PaymentSessionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new payment session.
func (r *Repository) Create(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByProviderOrderID loads the session keyed by the provider order id.
func (r *Repository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).
		Where("provider_order_id = ?", providerOrderID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarkStatus sets the session status, optionally recording a failure reason.
func (r *Repository) MarkStatus(ctx context.Context, id uuid.UUID, status enums.PaymentSessionStatus, failureReason *string) error {
	updates := map[string]any{"status": status}
	if failureReason != nil {
		updates["failure_reason"] = *failureReason
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Consume marks the session verified and stamps consumed_at. The status guard
// makes consumption single-shot under replayed callbacks.
func (r *Repository) Consume(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Updates(map[string]any{
			"status":      enums.PaymentSessionVerified,
			"consumed_at": gorm.Expr("now()"),
		}).Error
}
