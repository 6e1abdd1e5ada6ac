package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

type stubCartRepo struct {
	cart *models.Cart

	findItemByProduct  func(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	createItem         func(ctx context.Context, item *models.CartItem) error
	updateItemQuantity func(ctx context.Context, itemID uuid.UUID, quantity int) error
	setDiscount        func(ctx context.Context, cartID uuid.UUID, discountID *uuid.UUID) error
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		s.cart = &models.Cart{ID: uuid.New(), UserID: userID}
	}
	return s.cart, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			return &s.cart.Items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	if s.findItemByProduct != nil {
		return s.findItemByProduct(ctx, cartID, productID)
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			return &s.cart.Items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if s.createItem != nil {
		return s.createItem(ctx, item)
	}
	item.ID = uuid.New()
	s.cart.Items = append(s.cart.Items, *item)
	return nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if s.updateItemQuantity != nil {
		return s.updateItemQuantity(ctx, itemID, quantity)
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items[i].Quantity = quantity
		}
	}
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	kept := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.cart.Items = kept
	return nil
}

func (s *stubCartRepo) SetDiscount(ctx context.Context, cartID uuid.UUID, discountID *uuid.UUID) error {
	if s.setDiscount != nil {
		return s.setDiscount(ctx, cartID, discountID)
	}
	s.cart.DiscountID = discountID
	return nil
}

func (s *stubCartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	s.cart = nil
	return nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubDiscountLookup struct {
	discount *models.Discount
}

func (s *stubDiscountLookup) GetByCode(ctx context.Context, code string) (*models.Discount, error) {
	if s.discount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")
	}
	return s.discount, nil
}

type stubLocker struct {
	held map[string]bool
	dels []string
}

func (s *stubLocker) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.held[key] {
		return false, nil
	}
	return true, nil
}

func (s *stubLocker) Del(ctx context.Context, keys ...string) error {
	s.dels = append(s.dels, keys...)
	return nil
}

func (s *stubLocker) OpLockKey(scope, id string) string {
	return "ss:oplock:" + scope + ":" + id
}

func newTestProduct(price string) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Title:      "widget",
		Price:      decimal.RequireFromString(price),
		CategoryID: uuid.New(),
		IsActive:   true,
	}
}

func newCartService(t *testing.T, repo *stubCartRepo, products *stubProductLoader, lookup *stubDiscountLookup, locks opLocker) Service {
	t.Helper()
	svc, err := NewService(repo, products, lookup, locks)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemCreatesCartAndLine(t *testing.T) {
	product := newTestProduct("120.00")
	repo := &stubCartRepo{}
	products := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartService(t, repo, products, &stubDiscountLookup{}, nil)

	userID := uuid.New()
	details, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(repo.cart.Items) != 1 || repo.cart.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", repo.cart.Items)
	}
	if details.ItemCount != 2 {
		t.Fatalf("item_count = %d, want 2", details.ItemCount)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	product := newTestProduct("50.00")
	repo := &stubCartRepo{}
	products := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartService(t, repo, products, &stubDiscountLookup{}, nil)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 1); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 3); err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	if len(repo.cart.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(repo.cart.Items))
	}
	if repo.cart.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", repo.cart.Items[0].Quantity)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := &stubCartRepo{}
	svc := newCartService(t, repo, &stubProductLoader{}, &stubDiscountLookup{}, nil)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1)
	assertCode(t, err, pkgerrors.CodeNotFound)
	if repo.cart != nil {
		t.Fatal("cart must not be created for an unknown product")
	}
}

func TestUpdateItemQuantityRejectsBelowOne(t *testing.T) {
	product := newTestProduct("80.00")
	itemID := uuid.New()
	repo := &stubCartRepo{cart: &models.Cart{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.CartItem{{
			ID:        itemID,
			ProductID: product.ID,
			Quantity:  2,
			Product:   product,
		}},
	}}
	svc := newCartService(t, repo, &stubProductLoader{}, &stubDiscountLookup{}, nil)

	_, err := svc.UpdateItemQuantity(context.Background(), repo.cart.UserID, itemID, 0)
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.cart.Items[0].Quantity != 2 {
		t.Fatal("quantity must stay untouched on rejection")
	}
}

func TestApplyDiscountInvalidCouponLeavesCartUntouched(t *testing.T) {
	product := newTestProduct("200.00")
	repo := &stubCartRepo{cart: &models.Cart{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.CartItem{{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  1,
			Product:   product,
		}},
	}}
	svc := newCartService(t, repo, &stubProductLoader{}, &stubDiscountLookup{}, nil)

	_, err := svc.ApplyDiscount(context.Background(), repo.cart.UserID, "NOPE")
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.cart.DiscountID != nil {
		t.Fatal("discount must not attach on invalid coupon")
	}
}

func TestApplyDiscountBelowMinPurchaseLeavesCartUntouched(t *testing.T) {
	product := newTestProduct("100.00")
	repo := &stubCartRepo{cart: &models.Cart{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.CartItem{{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  1,
			Product:   product,
		}},
	}}
	now := time.Now()
	lookup := &stubDiscountLookup{discount: &models.Discount{
		ID:          uuid.New(),
		Code:        "SAVE",
		Kind:        enums.DiscountKindFixed,
		Value:       decimal.NewFromInt(50),
		IsActive:    true,
		MinPurchase: decimal.NewFromInt(500),
		ValidFrom:   now.Add(-time.Hour),
		ValidUntil:  now.Add(time.Hour),
	}}
	svc := newCartService(t, repo, &stubProductLoader{}, lookup, nil)

	_, err := svc.ApplyDiscount(context.Background(), repo.cart.UserID, "SAVE")
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.cart.DiscountID != nil {
		t.Fatal("discount must not attach below minimum purchase")
	}
}

func TestApplyDiscountEmptyCart(t *testing.T) {
	repo := &stubCartRepo{cart: &models.Cart{ID: uuid.New(), UserID: uuid.New()}}
	svc := newCartService(t, repo, &stubProductLoader{}, &stubDiscountLookup{}, nil)

	_, err := svc.ApplyDiscount(context.Background(), repo.cart.UserID, "SAVE")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestAddItemHeldLockConflicts(t *testing.T) {
	product := newTestProduct("10.00")
	repo := &stubCartRepo{}
	products := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	userID := uuid.New()
	locks := &stubLocker{held: map[string]bool{"ss:oplock:cart:" + userID.String(): true}}
	svc := newCartService(t, repo, products, &stubDiscountLookup{}, locks)

	_, err := svc.AddItem(context.Background(), userID, product.ID, 1)
	assertCode(t, err, pkgerrors.CodeConflict)
	if repo.cart != nil {
		t.Fatal("held lock must block the mutation")
	}
}

func TestLockReleasedAfterMutation(t *testing.T) {
	product := newTestProduct("10.00")
	repo := &stubCartRepo{}
	products := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	locks := &stubLocker{}
	svc := newCartService(t, repo, products, &stubDiscountLookup{}, locks)

	if _, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(locks.dels) != 1 {
		t.Fatalf("expected one lock release, got %d", len(locks.dels))
	}
}

func TestDetailsWithoutCartReturnsEmptyView(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{}, &stubProductLoader{}, &stubDiscountLookup{}, nil)

	details, err := svc.Details(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.ItemCount != 0 || !details.Subtotal.IsZero() {
		t.Fatalf("expected empty view, got %+v", details)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}
