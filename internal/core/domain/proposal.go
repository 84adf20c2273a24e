package domain

import (
	"strings"
	"time"
)

const (
	ProposalPending = "Pending"

	// UnknownJobTitle is shown for proposals whose job no longer exists.
	UnknownJobTitle = "Unknown Job"
)

// Proposal is a freelancer's bid on a job. A freelancer holds at most one
// proposal per job.
type Proposal struct {
	ID             string    `json:"id" bson:"id"`
	JobID          string    `json:"job_id" bson:"job_id"`
	FreelancerID   string    `json:"freelancer_id" bson:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name" bson:"freelancer_name"`
	BidAmount      float64   `json:"bid_amount" bson:"bid_amount"`
	CoverLetter    string    `json:"cover_letter" bson:"cover_letter"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// ProposalFields are the freelancer-supplied attributes of a proposal.
type ProposalFields struct {
	BidAmount   float64 `validate:"gt=0"`
	CoverLetter string  `validate:"required"`
}

// ProposalView is a proposal joined with the title of its job.
type ProposalView struct {
	Proposal
	JobTitle string `json:"job_title"`
}

// NewProposal validates fields and returns a pending proposal by freelancer
// on jobID.
func NewProposal(freelancer *User, jobID string, fields ProposalFields, now time.Time) (*Proposal, error) {
	fields.CoverLetter = strings.TrimSpace(fields.CoverLetter)
	if strings.TrimSpace(jobID) == "" {
		return nil, NewValidationError("job_id", "job_id is required")
	}
	if err := validateRecord(fields); err != nil {
		return nil, err
	}
	return &Proposal{
		ID:             NewID(),
		JobID:          jobID,
		FreelancerID:   freelancer.ID,
		FreelancerName: freelancer.Name,
		BidAmount:      fields.BidAmount,
		CoverLetter:    fields.CoverLetter,
		Status:         ProposalPending,
		CreatedAt:      now.UTC(),
	}, nil
}
