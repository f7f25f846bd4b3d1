package events

import (
	"context"
	"time"

	"github.com/justsurfingit/job-posts/internal/models"
)

const (
	JobPostCreated = "jobpost.created"
	JobPostUpdated = "jobpost.updated"
	JobPostDeleted = "jobpost.deleted"
)

// Event describes a change to the job post collection.
type Event struct {
	Type       string          `json:"type"`
	ID         int             `json:"id"`
	Post       *models.JobPost `json:"post,omitempty"` // nil for deletions
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
