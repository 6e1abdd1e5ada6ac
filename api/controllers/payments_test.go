package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/rahulvarma/shopsphere-backend/internal/checkout"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

type stubCheckoutService struct {
	confirm func(ctx context.Context, userID uuid.UUID, callback checkoutsvc.PaymentCallback) (*models.Order, error)
}

func (s stubCheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, input checkoutsvc.CreateOrderInput) (*models.Order, error) {
	panic("not implemented")
}

func (s stubCheckoutService) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*checkoutsvc.PaymentInit, error) {
	panic("not implemented")
}

func (s stubCheckoutService) ConfirmPayment(ctx context.Context, userID uuid.UUID, callback checkoutsvc.PaymentCallback) (*models.Order, error) {
	return s.confirm(ctx, userID, callback)
}

func (s stubCheckoutService) CancelPayment(ctx context.Context, userID uuid.UUID, providerOrderID, reason string) error {
	panic("not implemented")
}

func TestPaymentSuccessForwardsAllCallbackFields(t *testing.T) {
	var got checkoutsvc.PaymentCallback
	svc := stubCheckoutService{confirm: func(ctx context.Context, userID uuid.UUID, callback checkoutsvc.PaymentCallback) (*models.Order, error) {
		got = callback
		return &models.Order{ID: uuid.New(), UserID: userID}, nil
	}}
	handler := PaymentSuccess(svc, nil)

	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/payments/success", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.ProviderOrderID != "order_1" || got.PaymentID != "pay_1" || got.Signature != "sig" {
		t.Fatalf("callback not forwarded intact: %+v", got)
	}
}

func TestPaymentSuccessIncompleteCallbackKeepsIntegrityCode(t *testing.T) {
	svc := stubCheckoutService{confirm: func(ctx context.Context, userID uuid.UUID, callback checkoutsvc.PaymentCallback) (*models.Order, error) {
		if callback.ProviderOrderID == "" || callback.PaymentID == "" || callback.Signature == "" {
			return nil, pkgerrors.New(pkgerrors.CodePaymentIntegrity, "incomplete payment data")
		}
		t.Fatal("complete callback not expected")
		return nil, nil
	}}
	handler := PaymentSuccess(svc, nil)

	// Missing signature must reach the sequencer, not a request validator.
	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/payments/success", body))

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
	if envelope.Error.Code != string(pkgerrors.CodePaymentIntegrity) {
		t.Fatalf("code = %q, want %s", envelope.Error.Code, pkgerrors.CodePaymentIntegrity)
	}
	if envelope.Error.Message != "incomplete payment data" {
		t.Fatalf("message = %q, want incomplete payment data", envelope.Error.Message)
	}
}

func TestPaymentInitiateRejectsMalformedBody(t *testing.T) {
	handler := PaymentInitiate(stubCheckoutService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/payments/initiate", `{"order_id":"not-a-uuid"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
