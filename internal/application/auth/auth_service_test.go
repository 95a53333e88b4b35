package authservice

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/config"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "starbook"
	return cfg
}

func TestGenerateAndVerifyToken(t *testing.T) {
	svc := NewAuthService(testConfig("test-secret"), zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateJWT(ctx, userID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	claim, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verifying token: %v", err)
	}
	if claim.UserID != userID {
		t.Fatalf("claim user %s, want %s", claim.UserID, userID)
	}
	if !claim.IsAdmin() {
		t.Fatal("admin claim lost its role")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	ctx := context.Background()
	signer := NewAuthService(testConfig("secret-a"), zerolog.Nop())
	verifier := NewAuthService(testConfig("secret-b"), zerolog.Nop())

	token, err := signer.GenerateJWT(ctx, uuid.New(), domain.RoleUser)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	if _, err := verifier.VerifyToken(ctx, token); err == nil {
		t.Fatal("token signed with another secret verified")
	}
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("test-secret")
	cfg.JWT.Issuer = "someone-else"
	signer := NewAuthService(cfg, zerolog.Nop())
	verifier := NewAuthService(testConfig("test-secret"), zerolog.Nop())

	token, err := signer.GenerateJWT(ctx, uuid.New(), domain.RoleUser)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	if _, err := verifier.VerifyToken(ctx, token); err == nil {
		t.Fatal("token from another issuer verified")
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc := NewAuthService(testConfig("test-secret"), zerolog.Nop())
	if _, err := svc.VerifyToken(context.Background(), "not.a.jwt"); err == nil {
		t.Fatal("garbage token verified")
	}
}

func TestMissingSecret(t *testing.T) {
	svc := NewAuthService(testConfig(""), zerolog.Nop())
	if _, err := svc.GenerateJWT(context.Background(), uuid.New(), domain.RoleUser); err == nil {
		t.Fatal("token generated without a configured secret")
	}
}
