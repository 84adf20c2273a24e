package service

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory record store shared by the user, job and proposal stubs.
// ---------------------------------------------------------------------------

type memDB struct {
	users     map[string]*domain.User
	jobs      map[string]*domain.Job
	proposals map[string]*domain.Proposal

	unavailable     bool  // Ready reports ErrStoreUnavailable
	atomic          bool  // WithinTransaction rolls back on error
	deleteByJobErr  error // if set, DeleteByJob returns this error
	repoCalls       int   // number of repository calls made
	transactionRuns int
}

func newMemDB() *memDB {
	return &memDB{
		users:     make(map[string]*domain.User),
		jobs:      make(map[string]*domain.Job),
		proposals: make(map[string]*domain.Proposal),
		atomic:    true,
	}
}

func (db *memDB) Ready() error {
	if db.unavailable {
		return domain.ErrStoreUnavailable
	}
	return nil
}

func (db *memDB) Atomic() bool { return db.atomic }

func (db *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	db.transactionRuns++
	jobs, proposals := maps.Clone(db.jobs), maps.Clone(db.proposals)
	err := fn(ctx)
	if err != nil && db.atomic {
		db.jobs, db.proposals = jobs, proposals
	}
	return err
}

func (db *memDB) proposalsForJob(jobID string) int {
	n := 0
	for _, p := range db.proposals {
		if p.JobID == jobID {
			n++
		}
	}
	return n
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.db.repoCalls++
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *u
	r.db.users[u.ID] = &clone
	return nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.db.repoCalls++
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.repoCalls++
	for _, u := range r.db.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memJobs struct{ db *memDB }

func (r memJobs) Create(_ context.Context, j *domain.Job) error {
	r.db.repoCalls++
	clone := *j
	r.db.jobs[j.ID] = &clone
	return nil
}

func (r memJobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.db.repoCalls++
	j, ok := r.db.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

func (r memJobs) List(_ context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	r.db.repoCalls++
	out := []*domain.Job{}
	for _, j := range r.db.jobs {
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.ClientID != "" && j.ClientID != f.ClientID {
			continue
		}
		clone := *j
		out = append(out, &clone)
	}
	return out, nil
}

func (r memJobs) Delete(_ context.Context, id string) error {
	r.db.repoCalls++
	if _, ok := r.db.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.db.jobs, id)
	return nil
}

type memProposals struct{ db *memDB }

func (r memProposals) Create(_ context.Context, p *domain.Proposal) error {
	r.db.repoCalls++
	for _, existing := range r.db.proposals {
		if existing.JobID == p.JobID && existing.FreelancerID == p.FreelancerID {
			return domain.ErrDuplicateProposal
		}
	}
	clone := *p
	r.db.proposals[p.ID] = &clone
	return nil
}

func (r memProposals) FindByID(_ context.Context, id string) (*domain.Proposal, error) {
	r.db.repoCalls++
	p, ok := r.db.proposals[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r memProposals) FindByJobAndFreelancer(_ context.Context, jobID, freelancerID string) (*domain.Proposal, error) {
	r.db.repoCalls++
	for _, p := range r.db.proposals {
		if p.JobID == jobID && p.FreelancerID == freelancerID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProposalNotFound
}

func (r memProposals) list(match func(*domain.Proposal) bool) []*domain.Proposal {
	r.db.repoCalls++
	out := []*domain.Proposal{}
	for _, p := range r.db.proposals {
		if match(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out
}

func (r memProposals) ListByFreelancer(_ context.Context, freelancerID string) ([]*domain.Proposal, error) {
	return r.list(func(p *domain.Proposal) bool { return p.FreelancerID == freelancerID }), nil
}

func (r memProposals) ListByJob(_ context.Context, jobID string) ([]*domain.Proposal, error) {
	return r.list(func(p *domain.Proposal) bool { return p.JobID == jobID }), nil
}

func (r memProposals) Delete(_ context.Context, id string) error {
	r.db.repoCalls++
	if _, ok := r.db.proposals[id]; !ok {
		return domain.ErrProposalNotFound
	}
	delete(r.db.proposals, id)
	return nil
}

func (r memProposals) DeleteByJob(_ context.Context, jobID string) (int64, error) {
	r.db.repoCalls++
	if r.db.deleteByJobErr != nil {
		return 0, r.db.deleteByJobErr
	}
	var n int64
	for id, p := range r.db.proposals {
		if p.JobID == jobID {
			delete(r.db.proposals, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Session store and activity sink stubs.
// ---------------------------------------------------------------------------

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]string
	cleared  []string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]string)}
}

func (m *memSessions) Set(_ context.Context, id, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = userID
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[id]
	if !ok {
		return "", domain.ErrSessionExpired
	}
	return userID, nil
}

func (m *memSessions) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.cleared = append(m.cleared, id)
	return nil
}

type recordingSink struct {
	events []domain.ActivityEvent
}

func (s *recordingSink) Emit(e domain.ActivityEvent) { s.events = append(s.events, e) }

func (s *recordingSink) types() []domain.ActivityType {
	out := make([]domain.ActivityType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}
