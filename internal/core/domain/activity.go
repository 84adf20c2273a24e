package domain

import "time"

// ActivityType names a completed marketplace write.
type ActivityType string

const (
	ActivityUserRegistered    ActivityType = "user.registered"
	ActivityJobPosted         ActivityType = "job.posted"
	ActivityJobDeleted        ActivityType = "job.deleted"
	ActivityProposalSubmitted ActivityType = "proposal.submitted"
	ActivityProposalWithdrawn ActivityType = "proposal.withdrawn"
)

// ActivityEvent is published after a write has been persisted.
type ActivityEvent struct {
	Type        ActivityType      `json:"type"`
	AggregateID string            `json:"aggregate_id"`
	ActorID     string            `json:"actor_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}
