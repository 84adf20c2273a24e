package ports

import (
	"context"

	"github.com/gigboard/marketplace/internal/core/domain"
)

// ProposalRepository persists proposals.
type ProposalRepository interface {
	// Create inserts p and returns domain.ErrDuplicateProposal when the
	// freelancer already has a proposal on the job.
	Create(ctx context.Context, p *domain.Proposal) error
	FindByID(ctx context.Context, id string) (*domain.Proposal, error)
	FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*domain.Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]*domain.Proposal, error)
	ListByJob(ctx context.Context, jobID string) ([]*domain.Proposal, error)
	Delete(ctx context.Context, id string) error
	// DeleteByJob removes every proposal of jobID and returns how many went.
	DeleteByJob(ctx context.Context, jobID string) (int64, error)
}
