package domain

import (
	"strings"
	"time"
)

// Job is a piece of work posted by a client.
//
// ClientName is a snapshot of the owner's name taken when the job was posted
// and is not refreshed afterwards.
type Job struct {
	ID          string    `json:"id" bson:"id"`
	ClientID    string    `json:"client_id" bson:"client_id"`
	ClientName  string    `json:"client_name" bson:"client_name"`
	Title       string    `json:"title" bson:"title"`
	Category    string    `json:"category" bson:"category"`
	Budget      float64   `json:"budget" bson:"budget"`
	Deadline    string    `json:"deadline" bson:"deadline"`
	Description string    `json:"description" bson:"description"`
	PostedAt    time.Time `json:"posted_at" bson:"posted_at"`
}

// JobFields are the client-supplied attributes of a job.
type JobFields struct {
	Title       string  `validate:"required,max=200"`
	Category    string  `validate:"required,max=64"`
	Budget      float64 `validate:"gt=0"`
	Deadline    string  `validate:"required,datetime=2006-01-02"`
	Description string  `validate:"required"`
}

// NewJob validates fields and returns a job owned by owner.
func NewJob(owner *User, fields JobFields, now time.Time) (*Job, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Category = strings.TrimSpace(fields.Category)
	fields.Description = strings.TrimSpace(fields.Description)
	if err := validateRecord(fields); err != nil {
		return nil, err
	}
	return &Job{
		ID:          NewID(),
		ClientID:    owner.ID,
		ClientName:  owner.Name,
		Title:       fields.Title,
		Category:    fields.Category,
		Budget:      fields.Budget,
		Deadline:    fields.Deadline,
		Description: fields.Description,
		PostedAt:    now.UTC(),
	}, nil
}
