package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/internal/discounts"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

const opLockTTL = 10 * time.Second

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type discountLookup interface {
	GetByCode(ctx context.Context, code string) (*models.Discount, error)
}

type opLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	OpLockKey(scope, id string) string
}

// Service exposes the storefront cart operations.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*Details, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Details, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Details, error)
	Details(ctx context.Context, userID uuid.UUID) (*Details, error)
	ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*Details, error)
	RemoveDiscount(ctx context.Context, userID uuid.UUID) (*Details, error)
}

type service struct {
	repo      CartRepository
	products  productLoader
	discounts discountLookup
	locks     opLocker
	now       func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader, discountSvc discountLookup, locks opLocker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if discountSvc == nil {
		return nil, fmt.Errorf("discount service required")
	}
	return &service{
		repo:      repo,
		products:  products,
		discounts: discountSvc,
		locks:     locks,
		now:       time.Now,
	}, nil
}

// AddItem appends a product to the user's cart, creating the cart lazily on
// first use. Adding a product already in the cart increases its quantity.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	unlock, err := s.acquireLock(ctx, "cart", userID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	existing, err := s.repo.FindItemByProduct(ctx, record.ID, product.ID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:    record.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	return s.Details(ctx, userID)
}

// UpdateItemQuantity sets the line quantity. Quantities below 1 are rejected;
// removal is its own operation.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1; remove the item instead")
	}

	unlock, err := s.acquireLock(ctx, "cart_item", itemID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, record.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if item.Quantity != quantity {
		if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
		}
	}

	return s.Details(ctx, userID)
}

// RemoveItem deletes a line item from the cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	unlock, err := s.acquireLock(ctx, "cart_item", itemID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindItem(ctx, record.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}

	return s.Details(ctx, userID)
}

// Details returns the resolved cart with server-derived totals. A user with no
// cart yet gets an empty view rather than an error.
func (s *service) Details(ctx context.Context, userID uuid.UUID) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BuildDetails(&models.Cart{}, s.now()), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	return BuildDetails(record, s.now()), nil
}

// ApplyDiscount attaches a coupon to the cart after checking applicability
// against the current subtotal. Invalid codes leave the cart untouched.
func (s *service) ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	discount, err := s.discounts.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	current := BuildDetails(record, s.now())
	if err := discounts.CheckApplicability(discount, current.Subtotal, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.SetDiscount(ctx, record.ID, &discount.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying discount")
	}

	return s.Details(ctx, userID)
}

// RemoveDiscount detaches the applied coupon, if any.
func (s *service) RemoveDiscount(ctx context.Context, userID uuid.UUID) (*Details, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	record, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if record.DiscountID != nil {
		if err := s.repo.SetDiscount(ctx, record.ID, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing discount")
		}
	}

	return s.Details(ctx, userID)
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return record, nil
}

// acquireLock takes a short-lived mutation lock so double-submitted requests
// fail fast instead of racing. A nil locker disables the guard.
func (s *service) acquireLock(ctx context.Context, scope, id string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	key := s.locks.OpLockKey(scope, id)
	ok, err := s.locks.SetNX(ctx, key, "1", opLockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring operation lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "operation already in progress")
	}
	return func() {
		_ = s.locks.Del(ctx, key)
	}, nil
}
