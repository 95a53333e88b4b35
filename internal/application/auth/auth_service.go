package authservice

import (
	"context"

	"github.com/google/uuid"

	"github.com/starbookhq/starbook/internal/domain"
)

type IAuthService interface {
	VerifyToken(ctx context.Context, tokenString string) (*domain.Claim, error)
	GenerateJWT(ctx context.Context, userID uuid.UUID, role domain.UserRole) (string, error)
}
