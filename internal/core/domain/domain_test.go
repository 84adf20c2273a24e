package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func TestNewUser_NormalizesAndValidates(t *testing.T) {
	u, err := NewUser(Registration{Name: " Ana ", Email: " Ana@X.com ", Password: "pw", Role: RoleClient}, now)
	require.NoError(t, err)
	assert.Len(t, u.ID, 16)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, now, u.JoinedAt)
}

func TestNewUser_RejectsUnknownRole(t *testing.T) {
	_, err := NewUser(Registration{Name: "Ana", Email: "a@x.com", Password: "pw", Role: "admin"}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "role", ve.Fields[0].Field)
}

func TestNewJob_SnapshotsOwner(t *testing.T) {
	owner := &User{ID: "c1", Name: "StartUp Inc.", Role: RoleClient}
	job, err := NewJob(owner, JobFields{
		Title:       "Logo Design",
		Category:    "graphics_design",
		Budget:      200,
		Deadline:    "2025-12-25",
		Description: "Minimalist logo.",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "c1", job.ClientID)
	assert.Equal(t, "StartUp Inc.", job.ClientName)
	assert.Equal(t, now, job.PostedAt)
	assert.NotEmpty(t, job.ID)
}

func TestNewJob_ReportsEveryBadField(t *testing.T) {
	owner := &User{ID: "c1", Name: "C", Role: RoleClient}
	_, err := NewJob(owner, JobFields{Title: "  ", Budget: 0, Deadline: "next week"}, now)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "category", "budget", "deadline", "description"}, fields)
}

func TestNewProposal_IsPending(t *testing.T) {
	f := &User{ID: "f1", Name: "Freya", Role: RoleFreelancer}
	p, err := NewProposal(f, "j1", ProposalFields{BidAmount: 150, CoverLetter: "Hi"}, now)
	require.NoError(t, err)

	assert.Equal(t, ProposalPending, p.Status)
	assert.Equal(t, "Freya", p.FreelancerName)
	assert.Equal(t, "j1", p.JobID)
}

func TestNewProposal_RequiresJobAndBid(t *testing.T) {
	f := &User{ID: "f1", Name: "Freya", Role: RoleFreelancer}

	_, err := NewProposal(f, "", ProposalFields{BidAmount: 1, CoverLetter: "Hi"}, now)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "job_id", ve.Fields[0].Field)

	_, err = NewProposal(f, "j1", ProposalFields{BidAmount: -5, CoverLetter: "Hi"}, now)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bid_amount", ve.Fields[0].Field)
}

func TestPartialCleanupError_MatchesBothCauses(t *testing.T) {
	cause := errors.New("socket closed")
	err := error(&PartialCleanupError{JobID: "j1", Err: cause})

	assert.ErrorIs(t, err, ErrPartialCleanup)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, ErrJobNotFound, ErrNotFound)
}
