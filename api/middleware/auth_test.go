package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/rahulvarma/shopsphere-backend/pkg/auth"
	"github.com/rahulvarma/shopsphere-backend/pkg/config"
)

type stubSessionChecker struct {
	present bool
	err     error
	checked []string
}

func (s *stubSessionChecker) HasSession(ctx context.Context, jti string) (bool, error) {
	s.checked = append(s.checked, jti)
	return s.present, s.err
}

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopsphere",
		ExpirationMinutes: 5,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	return token
}

func runAuth(t *testing.T, cfg config.JWTConfig, checker *stubSessionChecker, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/details", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp := httptest.NewRecorder()
	Auth(cfg, checker, nil)(next).ServeHTTP(resp, req)
	return resp, seenUserID
}

func TestAuthAcceptsValidToken(t *testing.T) {
	cfg := jwtTestConfig()
	userID := uuid.New()
	checker := &stubSessionChecker{present: true}

	resp, seenUserID := runAuth(t, cfg, checker, "Bearer "+mintTestToken(t, cfg, userID))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", resp.Code, resp.Body.String())
	}
	if seenUserID != userID.String() {
		t.Fatalf("user id in context = %q, want %s", seenUserID, userID)
	}
	if len(checker.checked) != 1 {
		t.Fatalf("session checks = %d, want 1", len(checker.checked))
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	resp, _ := runAuth(t, jwtTestConfig(), &stubSessionChecker{present: true}, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsForgedToken(t *testing.T) {
	cfg := jwtTestConfig()
	forged := config.JWTConfig{Secret: "other-secret", Issuer: cfg.Issuer, ExpirationMinutes: 5}

	resp, _ := runAuth(t, cfg, &stubSessionChecker{present: true}, "Bearer "+mintTestToken(t, forged, uuid.New()))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := jwtTestConfig()

	resp, _ := runAuth(t, cfg, &stubSessionChecker{present: false}, "Bearer "+mintTestToken(t, cfg, uuid.New()))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSessionStoreOutage(t *testing.T) {
	cfg := jwtTestConfig()
	checker := &stubSessionChecker{err: context.DeadlineExceeded}

	resp, _ := runAuth(t, cfg, checker, "Bearer "+mintTestToken(t, cfg, uuid.New()))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
