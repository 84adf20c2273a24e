package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/core/authz"
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

type ProposalService struct {
	jobs      ports.JobRepository
	proposals ports.ProposalRepository
	store     ports.StoreHealth
	events    ports.ActivitySink
	logger    zerolog.Logger
}

func NewProposalService(
	jobs ports.JobRepository,
	proposals ports.ProposalRepository,
	store ports.StoreHealth,
	events ports.ActivitySink,
	logger zerolog.Logger,
) *ProposalService {
	return &ProposalService{
		jobs:      jobs,
		proposals: proposals,
		store:     store,
		events:    sinkOrDiscard(events),
		logger:    logger,
	}
}

// Submit sends a proposal from actor, who must be a freelancer, on jobID.
// A freelancer may apply to a given job only once.
func (s *ProposalService) Submit(ctx context.Context, actor *domain.User, jobID string, fields domain.ProposalFields) (*domain.Proposal, error) {
	if !authz.CanApply(actor) {
		return nil, domain.ErrForbidden
	}
	proposal, err := domain.NewProposal(actor, jobID, fields, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Ready(); err != nil {
		return nil, err
	}

	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return nil, err
	}

	if _, err := s.proposals.FindByJobAndFreelancer(ctx, jobID, actor.ID); err == nil {
		return nil, domain.ErrDuplicateProposal
	} else if !errors.Is(err, domain.ErrProposalNotFound) {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	s.logger.Info().Str("proposal_id", proposal.ID).Str("job_id", jobID).Str("freelancer_id", actor.ID).Msg("proposal submitted")
	s.events.Emit(domain.ActivityEvent{
		Type:        domain.ActivityProposalSubmitted,
		AggregateID: jobID,
		ActorID:     actor.ID,
		OccurredAt:  proposal.CreatedAt,
		Attributes:  map[string]string{"proposal_id": proposal.ID},
	})
	return proposal, nil
}

// ListByFreelancer returns the proposals sent by freelancerID, each with the
// title of its job. Jobs that no longer exist are titled domain.UnknownJobTitle.
func (s *ProposalService) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.ProposalView, error) {
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	proposals, err := s.proposals.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	views := make([]domain.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		title, ok := titles[p.JobID]
		if !ok {
			job, err := s.jobs.FindByID(ctx, p.JobID)
			switch {
			case err == nil:
				title = job.Title
			case errors.Is(err, domain.ErrJobNotFound):
				title = domain.UnknownJobTitle
			default:
				return nil, fmt.Errorf("list proposals: %w", err)
			}
			titles[p.JobID] = title
		}
		views = append(views, domain.ProposalView{Proposal: *p, JobTitle: title})
	}
	return views, nil
}

// ListByJob returns the proposals of jobID when actor owns the job, and an
// empty list otherwise.
func (s *ProposalService) ListByJob(ctx context.Context, jobID string, actor *domain.User) ([]*domain.Proposal, error) {
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return []*domain.Proposal{}, nil
		}
		return nil, err
	}
	if !authz.CanViewJobProposals(actor, job) {
		return []*domain.Proposal{}, nil
	}
	return s.proposals.ListByJob(ctx, jobID)
}

// Delete withdraws a proposal submitted by actor.
func (s *ProposalService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := s.store.Ready(); err != nil {
		return err
	}
	proposal, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeleteProposal(actor, proposal) {
		return domain.ErrForbidden
	}
	if err := s.proposals.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("proposal_id", id).Str("freelancer_id", actor.ID).Msg("proposal withdrawn")
	s.events.Emit(domain.ActivityEvent{
		Type:        domain.ActivityProposalWithdrawn,
		AggregateID: proposal.JobID,
		ActorID:     actor.ID,
		OccurredAt:  time.Now().UTC(),
		Attributes:  map[string]string{"proposal_id": id},
	})
	return nil
}
