package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) (code, message string, details any) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message, envelope.Error.Details
}

func TestWriteSuccessEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"status": "ok"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope)
	}
}

func TestWriteErrorPassesThroughTypedMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodePaymentIntegrity, "incomplete payment data"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	code, message, _ := decodeError(t, resp)
	if code != string(pkgerrors.CodePaymentIntegrity) || message != "incomplete payment data" {
		t.Fatalf("unexpected error body: code=%q message=%q", code, message)
	}
}

func TestWriteErrorMasksInternalMessage(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeInternal, "database exploded"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	_, message, _ := decodeError(t, resp)
	if message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", message)
	}
}

func TestWriteErrorWrapsUntypedError(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, errors.New("raw failure"))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	code, _, _ := decodeError(t, resp)
	if code != string(pkgerrors.CodeInternal) {
		t.Fatalf("code = %q, want %s", code, pkgerrors.CodeInternal)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"quantity": "must be at least 1"})
	WriteError(context.Background(), nil, resp, err)

	_, _, details := decodeError(t, resp)
	fields, ok := details.(map[string]any)
	if !ok || fields["quantity"] != "must be at least 1" {
		t.Fatalf("details missing: %+v", details)
	}
}

func TestWriteErrorStripsDetailsWhenDisallowed(t *testing.T) {
	resp := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "boom").WithDetails(map[string]string{"query": "SELECT ..."})
	WriteError(context.Background(), nil, resp, err)

	_, _, details := decodeError(t, resp)
	if details != nil {
		t.Fatalf("internal details leaked: %+v", details)
	}
}
