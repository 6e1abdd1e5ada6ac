package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rahulvarma/shopsphere-backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		BaseURL:   baseURL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.RazorpayConfig{KeySecret: "secret"}); err == nil {
		t.Fatal("expected error for missing key id")
	}
	if _, err := NewClient(config.RazorpayConfig{KeyID: "rzp_test_key"}); err == nil {
		t.Fatal("expected error for missing key secret")
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "secret" {
			t.Error("basic auth credentials missing")
		}

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Amount != 70000 || req.Currency != "INR" {
			t.Errorf("unexpected payload: %+v", req)
		}

		json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	order, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 70000, Currency: "INR", Receipt: "r-1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_123" {
		t.Fatalf("order id = %q, want order_123", order.ID)
	}
}

func TestCreateOrderRejectsResponseWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"entity": "order", "status": "created"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	if err == nil || !strings.Contains(err.Error(), "missing id") {
		t.Fatalf("expected missing id error, got %v", err)
	}
}

func TestCreateOrderSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "BAD_REQUEST_ERROR", "description": "amount exceeds maximum"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	if err == nil || !strings.Contains(err.Error(), "amount exceeds maximum") {
		t.Fatalf("expected provider description in error, got %v", err)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	if _, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 0}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "secret"
	orderID := "order_123"
	paymentID := "pay_456"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	signature := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, orderID, paymentID, signature) {
		t.Fatal("valid signature rejected")
	}
	if !VerifySignature(secret, orderID, paymentID, strings.ToUpper(signature)) {
		t.Fatal("uppercase hex of a valid signature rejected")
	}
	if VerifySignature(secret, orderID, paymentID, "deadbeef") {
		t.Fatal("forged signature accepted")
	}
	if VerifySignature(secret, orderID, "", signature) {
		t.Fatal("blank payment id accepted")
	}
}
