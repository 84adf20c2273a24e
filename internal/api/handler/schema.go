package handler

import "github.com/gigboard/marketplace/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=client freelancer"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createJobRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Category    string  `json:"category"    validate:"required"`
	Budget      float64 `json:"budget"      validate:"gt=0"`
	Deadline    string  `json:"deadline"    validate:"required"`
	Description string  `json:"description" validate:"required"`
}

type submitProposalRequest struct {
	BidAmount   float64 `json:"bid_amount"   validate:"gt=0"`
	CoverLetter string  `json:"cover_letter" validate:"required"`
}

// --- Response types ---

type sessionResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type jobListResponse struct {
	Category string        `json:"category,omitempty"`
	Jobs     []*domain.Job `json:"jobs"`
}

type jobDetailResponse struct {
	Job       *domain.Job        `json:"job"`
	CanApply  bool               `json:"can_apply"`
	CanDelete bool               `json:"can_delete"`
	Proposals []*domain.Proposal `json:"proposals"`
}

type deleteJobResponse struct {
	ID               string `json:"id"`
	ProposalsRemoved int64  `json:"proposals_removed"`
}

type clientDashboardResponse struct {
	User *domain.User  `json:"user"`
	Jobs []*domain.Job `json:"jobs"`
}

type freelancerDashboardResponse struct {
	User      *domain.User          `json:"user"`
	Proposals []domain.ProposalView `json:"proposals"`
}
