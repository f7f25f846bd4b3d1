package repository

import (
	"context"
	"errors"

	"github.com/justsurfingit/job-posts/internal/models"
)

// ErrNotFound is returned when no job post has the requested id.
var ErrNotFound = errors.New("job post not found")

// Repository persists job posts. Implementations must be safe for
// concurrent use and must never hand out an id twice.
type Repository interface {
	// List returns every stored post in insertion order.
	List(ctx context.Context) ([]models.JobPost, error)

	Get(ctx context.Context, id int) (models.JobPost, error)

	// Create stores post under a freshly allocated id and returns it.
	// Any id already set on post is ignored.
	Create(ctx context.Context, post models.JobPost) (models.JobPost, error)

	// Update replaces the caller-supplied fields of post id, keeping ID and CreatedAt.
	Update(ctx context.Context, id int, fields models.JobPostFormData) (models.JobPost, error)

	// Delete removes post id and returns the removed record.
	Delete(ctx context.Context, id int) (models.JobPost, error)

	Count(ctx context.Context) (int, error)
}
