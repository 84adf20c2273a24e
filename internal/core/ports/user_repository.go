package ports

import (
	"context"

	"github.com/gigboard/marketplace/internal/core/domain"
)

// UserRepository persists marketplace accounts.
type UserRepository interface {
	// Create inserts user and returns domain.ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
