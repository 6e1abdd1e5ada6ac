package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/api/middleware"
	cartsvc "github.com/rahulvarma/shopsphere-backend/internal/cart"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

type stubCartService struct {
	details *cartsvc.Details
	err     error

	addItem            func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.Details, error)
	updateItemQuantity func(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.Details, error)
	applyDiscount      func(ctx context.Context, userID uuid.UUID, code string) (*cartsvc.Details, error)
}

func (s stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.Details, error) {
	if s.addItem != nil {
		return s.addItem(ctx, userID, productID, quantity)
	}
	return s.details, s.err
}

func (s stubCartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.Details, error) {
	if s.updateItemQuantity != nil {
		return s.updateItemQuantity(ctx, userID, itemID, quantity)
	}
	return s.details, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.Details, error) {
	return s.details, s.err
}

func (s stubCartService) Details(ctx context.Context, userID uuid.UUID) (*cartsvc.Details, error) {
	return s.details, s.err
}

func (s stubCartService) ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*cartsvc.Details, error) {
	if s.applyDiscount != nil {
		return s.applyDiscount(ctx, userID, code)
	}
	return s.details, s.err
}

func (s stubCartService) RemoveDiscount(ctx context.Context, userID uuid.UUID) (*cartsvc.Details, error) {
	return s.details, s.err
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartAddItemSuccess(t *testing.T) {
	details := &cartsvc.Details{
		CartID:    uuid.New(),
		ItemCount: 2,
		Subtotal:  decimal.RequireFromString("240"),
	}
	handler := CartAddItem(stubCartService{details: details}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.Details `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartID != details.CartID || envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemMissingUserContext(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartApplyDiscountAcceptsTypedBody(t *testing.T) {
	details := &cartsvc.Details{CartID: uuid.New()}
	var gotCode string
	svc := stubCartService{applyDiscount: func(_ context.Context, _ uuid.UUID, code string) (*cartsvc.Details, error) {
		gotCode = code
		return details, nil
	}}
	handler := CartApplyDiscount(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/apply-discount", `{"code":"SAVE20","type":"coupon"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotCode != "SAVE20" {
		t.Fatalf("code = %q, want SAVE20", gotCode)
	}
}

func TestCartApplyDiscountRejectsUnknownType(t *testing.T) {
	handler := CartApplyDiscount(stubCartService{details: &cartsvc.Details{}}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/apply-discount", `{"code":"SAVE20","type":"cashback"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemZeroQuantityReachesService(t *testing.T) {
	gotQuantity := -1
	svc := stubCartService{updateItemQuantity: func(_ context.Context, _ uuid.UUID, _ uuid.UUID, quantity int) (*cartsvc.Details, error) {
		gotQuantity = quantity
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1; remove the item instead")
	}}

	router := chi.NewRouter()
	router.Put("/cart/{itemId}", CartUpdateItem(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/cart/"+uuid.NewString(), `{"quantity":0}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if gotQuantity != 0 {
		t.Fatalf("quantity = %d, want 0 forwarded to the service", gotQuantity)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "quantity must be at least 1; remove the item instead" {
		t.Fatalf("message = %q", envelope.Error.Message)
	}
}

func TestCartApplyDiscountPassesThroughValidationError(t *testing.T) {
	handler := CartApplyDiscount(stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/apply-discount", `{"code":"NOPE"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid coupon" {
		t.Fatalf("message = %q, want invalid coupon", envelope.Error.Message)
	}
}
