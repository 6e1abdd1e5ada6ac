package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

// Service exposes discount lookup for the storefront and the cart.
type Service interface {
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
}

type service struct {
	repo DiscountRepository
}

// NewService builds a discount service backed by the provided repository.
func NewService(repo DiscountRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

// GetByCode resolves a discount by its code. Unknown codes surface as an
// "invalid coupon" validation error, never as a bare not-found.
func (s *service) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading discount")
	}
	return discount, nil
}
