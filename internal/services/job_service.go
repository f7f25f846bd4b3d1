package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/job-posts/internal/events"
	"github.com/justsurfingit/job-posts/internal/logging"
	"github.com/justsurfingit/job-posts/internal/models"
	"github.com/justsurfingit/job-posts/internal/repository"
)

// ErrInvalidInput is returned when any required job post field is missing or empty.
var ErrInvalidInput = errors.New("all fields are required")

// JobPostService is the authoritative job post store: it validates input,
// stamps creation time and delegates storage to a Repository.
type JobPostService struct {
	repo      repository.Repository
	publisher events.Publisher
	log       *logging.Logger
	clock     func() time.Time
	validate  *validator.Validate
}

// Option configures JobPostService
type Option func(*JobPostService)

// WithPublisher sets where lifecycle events are sent
func WithPublisher(p events.Publisher) Option {
	return func(s *JobPostService) {
		s.publisher = p
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *JobPostService) {
		s.log = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(s *JobPostService) {
		s.clock = clock
	}
}

func NewJobPostService(repo repository.Repository, opts ...Option) *JobPostService {
	s := &JobPostService{
		repo:      repo,
		publisher: events.NopPublisher{},
		log:       logging.NewNop(),
		clock:     time.Now,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns the full collection. Order is not guaranteed.
func (s *JobPostService) ListAll(ctx context.Context) ([]models.JobPost, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.JobPost{}
	}
	s.log.Info("returning job posts", "count", len(posts))
	return posts, nil
}

func (s *JobPostService) GetByID(ctx context.Context, id int) (models.JobPost, error) {
	s.log.Debug("looking up job post", "id", id)
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("job post not found", "id", id)
		}
		return models.JobPost{}, err
	}
	return post, nil
}

// Create validates fields, assigns the next id and the creation time, and stores the post.
func (s *JobPostService) Create(ctx context.Context, fields models.JobPostFormData) (models.JobPost, error) {
	s.log.Info("creating job post", "title", fields.Title)
	if err := s.check(fields); err != nil {
		s.log.Warn("validation failed, missing required fields")
		return models.JobPost{}, err
	}

	post, err := s.repo.Create(ctx, models.JobPost{
		JobPostFormData: fields,
		CreatedAt:       s.clock().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		return models.JobPost{}, fmt.Errorf("create job post: %w", err)
	}

	s.log.Info("job post created", "id", post.ID)
	s.publish(ctx, events.JobPostCreated, post.ID, &post)
	return post, nil
}

// Update replaces every caller-supplied field of post id. ID and CreatedAt are kept,
// so editing a post does not change its posted date.
func (s *JobPostService) Update(ctx context.Context, id int, fields models.JobPostFormData) (models.JobPost, error) {
	s.log.Info("updating job post", "id", id)
	if _, err := s.GetByID(ctx, id); err != nil {
		return models.JobPost{}, err
	}
	if err := s.check(fields); err != nil {
		s.log.Warn("update validation failed, missing required fields", "id", id)
		return models.JobPost{}, err
	}

	post, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return models.JobPost{}, err
	}

	s.log.Info("job post updated", "id", id)
	s.publish(ctx, events.JobPostUpdated, id, &post)
	return post, nil
}

func (s *JobPostService) Delete(ctx context.Context, id int) error {
	s.log.Info("deleting job post", "id", id)
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("job post not found", "id", id)
		}
		return err
	}

	s.log.Info("job post deleted", "id", id, "title", removed.Title)
	s.publish(ctx, events.JobPostDeleted, id, nil)
	return nil
}

func (s *JobPostService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *JobPostService) check(fields models.JobPostFormData) error {
	if err := s.validate.Struct(fields); err != nil {
		return ErrInvalidInput
	}
	return nil
}

// publish never fails the calling operation; delivery problems are only logged.
func (s *JobPostService) publish(ctx context.Context, kind string, id int, post *models.JobPost) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       kind,
		ID:         id,
		Post:       post,
		OccurredAt: s.clock().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish job post event", "type", kind, "id", id, "err", err)
	}
}
