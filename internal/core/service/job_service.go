package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/core/authz"
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

type JobService struct {
	jobs      ports.JobRepository
	proposals ports.ProposalRepository
	store     ports.UnitOfWork
	events    ports.ActivitySink
	logger    zerolog.Logger
}

func NewJobService(
	jobs ports.JobRepository,
	proposals ports.ProposalRepository,
	store ports.UnitOfWork,
	events ports.ActivitySink,
	logger zerolog.Logger,
) *JobService {
	return &JobService{
		jobs:      jobs,
		proposals: proposals,
		store:     store,
		events:    sinkOrDiscard(events),
		logger:    logger,
	}
}

// Create posts a new job on behalf of owner, who must be a client.
func (s *JobService) Create(ctx context.Context, owner *domain.User, fields domain.JobFields) (*domain.Job, error) {
	if !authz.CanPostJob(owner) {
		return nil, domain.ErrForbidden
	}
	job, err := domain.NewJob(owner, fields, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Ready(); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("client_id", owner.ID).Msg("failed to create job")
		return nil, err
	}

	s.logger.Info().Str("job_id", job.ID).Str("client_id", owner.ID).Str("category", job.Category).Msg("job posted")
	s.events.Emit(domain.ActivityEvent{
		Type:        domain.ActivityJobPosted,
		AggregateID: job.ID,
		ActorID:     owner.ID,
		OccurredAt:  job.PostedAt,
		Attributes:  map[string]string{"category": job.Category, "title": job.Title},
	})
	return job, nil
}

// List returns every job, or only those in category when it is non-empty.
func (s *JobService) List(ctx context.Context, category string) ([]*domain.Job, error) {
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	return s.jobs.List(ctx, ports.JobFilter{Category: strings.TrimSpace(category)})
}

// ListByClient returns the jobs posted by clientID.
func (s *JobService) ListByClient(ctx context.Context, clientID string) ([]*domain.Job, error) {
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	return s.jobs.List(ctx, ports.JobFilter{ClientID: clientID})
}

func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	return s.jobs.FindByID(ctx, id)
}

// Delete removes a job owned by actor together with all of its proposals.
//
// Both deletes run in one transaction when the store supports it. Otherwise
// they run in sequence, and a failure after the job itself was removed is
// reported as a *domain.PartialCleanupError.
func (s *JobService) Delete(ctx context.Context, actor *domain.User, id string) (int64, error) {
	if err := s.store.Ready(); err != nil {
		return 0, err
	}
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !authz.CanDeleteJob(actor, job) {
		return 0, domain.ErrForbidden
	}

	var (
		removed    int64
		jobRemoved bool
	)
	err = s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.jobs.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		jobRemoved = true

		n, err := s.proposals.DeleteByJob(ctx, id)
		if err != nil {
			return fmt.Errorf("delete proposals: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		if jobRemoved && !s.store.Atomic() {
			s.logger.Error().Err(err).Str("job_id", id).Msg("job removed but proposals were left behind")
			return 0, &domain.PartialCleanupError{JobID: id, Err: err}
		}
		return 0, err
	}

	s.logger.Info().Str("job_id", id).Int64("proposals_removed", removed).Msg("job deleted")
	s.events.Emit(domain.ActivityEvent{
		Type:        domain.ActivityJobDeleted,
		AggregateID: id,
		ActorID:     actor.ID,
		OccurredAt:  time.Now().UTC(),
		Attributes:  map[string]string{"proposals_removed": strconv.FormatInt(removed, 10)},
	})
	return removed, nil
}
