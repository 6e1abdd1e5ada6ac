package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rahulvarma/shopsphere-backend/pkg/config"
)

func tokenTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopsphere",
		ExpirationMinutes: 5,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := tokenTestConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
		JTI:    "jti-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("jti = %q, want jti-1", claims.ID)
	}
}

func TestMintAccessTokenGeneratesJTIWhenBlank(t *testing.T) {
	cfg := tokenTestConfig()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("jti must be generated when not provided")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := tokenTestConfig()

	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := tokenTestConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "other-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := tokenTestConfig()
	other := cfg
	other.Issuer = "someone-else"
	token, err := MintAccessToken(other, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}
}
