package userrepo

import (
	"context"

	"github.com/starbookhq/starbook/internal/domain"
)

type IUserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
