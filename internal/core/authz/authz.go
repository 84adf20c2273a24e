// Package authz holds the role and ownership predicates that gate every
// mutating marketplace action. Each predicate is a pure function of its
// arguments and denies by default: a nil user, an unknown role or a missing
// record is always rejected.
package authz

import "github.com/gigboard/marketplace/internal/core/domain"

// CanPostJob reports whether user may publish a job.
func CanPostJob(user *domain.User) bool {
	return user.IsClient()
}

// CanApply reports whether user may submit a proposal.
func CanApply(user *domain.User) bool {
	return user.IsFreelancer()
}

// CanDeleteJob reports whether user owns job.
func CanDeleteJob(user *domain.User, job *domain.Job) bool {
	return user.IsClient() && job != nil && job.ClientID == user.ID
}

// CanDeleteProposal reports whether user submitted proposal.
func CanDeleteProposal(user *domain.User, proposal *domain.Proposal) bool {
	return user.IsFreelancer() && proposal != nil && proposal.FreelancerID == user.ID
}

// CanViewJobProposals reports whether user may see the proposals of job.
func CanViewJobProposals(user *domain.User, job *domain.Job) bool {
	return CanDeleteJob(user, job)
}
