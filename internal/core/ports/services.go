package ports

import (
	"context"

	"github.com/gigboard/marketplace/internal/core/domain"
)

// AuthService registers and authenticates users.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// SessionService maps session tokens to users.
type SessionService interface {
	Start(ctx context.Context, user *domain.User) (string, error)
	// Resolve returns the user behind token. When the user no longer exists
	// the session is cleared and domain.ErrSessionExpired is returned.
	Resolve(ctx context.Context, token string) (*domain.User, error)
	End(ctx context.Context, token string) error
}

// JobService implements job use cases.
type JobService interface {
	Create(ctx context.Context, owner *domain.User, fields domain.JobFields) (*domain.Job, error)
	List(ctx context.Context, category string) ([]*domain.Job, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
	// Delete removes the job and its proposals, returning how many proposals
	// were removed.
	Delete(ctx context.Context, actor *domain.User, id string) (int64, error)
}

// ProposalService implements proposal use cases.
type ProposalService interface {
	Submit(ctx context.Context, actor *domain.User, jobID string, fields domain.ProposalFields) (*domain.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.ProposalView, error)
	ListByJob(ctx context.Context, jobID string, actor *domain.User) ([]*domain.Proposal, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
