package contact

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

// MessageRepository defines the persistence surface for contact messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
}

// Repository exposes persistence operations for contact messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new contact message.
func (r *Repository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// SubmitInput carries a contact-form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Service accepts contact-form submissions.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error)
}

type service struct {
	repo MessageRepository
}

// NewService builds a contact service backed by the provided repository.
func NewService(repo MessageRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	body := strings.TrimSpace(input.Message)
	if name == "" || email == "" || body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required")
	}

	message := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving message")
	}
	return message, nil
}
