package ports

import (
	"context"

	"github.com/gigboard/marketplace/internal/core/domain"
)

// JobFilter narrows List by exact match. Empty fields are ignored.
type JobFilter struct {
	Category string
	ClientID string
}

// JobRepository persists jobs.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	// Delete removes the job and returns domain.ErrJobNotFound if it was
	// already gone.
	Delete(ctx context.Context, id string) error
}
