package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/job-posts/internal/events"
	"github.com/justsurfingit/job-posts/internal/models"
	"github.com/justsurfingit/job-posts/internal/repository"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var fixedNow = time.Date(2024, 12, 1, 10, 0, 0, 123456789, time.UTC)

func validFields() models.JobPostFormData {
	return models.JobPostFormData{
		Title:          "Engineer",
		Department:     "Eng",
		EmploymentType: models.FullTime,
		Description:    "...",
		Location:       "Remote",
		Deadline:       "2025-01-01",
	}
}

func newService(pub events.Publisher) *JobPostService {
	return NewJobPostService(
		repository.NewMemoryRepository(),
		WithPublisher(pub),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newService(&fakePublisher{})

	created, err := svc.Create(ctx, validFields())
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, validFields(), created.Fields())
	assert.Equal(t, fixedNow.Truncate(time.Millisecond), created.CreatedAt)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateRejectsAnyMissingField(t *testing.T) {
	blank := map[string]func(*models.JobPostFormData){
		"title":          func(f *models.JobPostFormData) { f.Title = "" },
		"department":     func(f *models.JobPostFormData) { f.Department = "" },
		"employmentType": func(f *models.JobPostFormData) { f.EmploymentType = "" },
		"description":    func(f *models.JobPostFormData) { f.Description = "" },
		"location":       func(f *models.JobPostFormData) { f.Location = "" },
		"deadline":       func(f *models.JobPostFormData) { f.Deadline = "" },
	}
	for name, mutate := range blank {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			pub := &fakePublisher{}
			svc := newService(pub)

			fields := validFields()
			mutate(&fields)
			_, err := svc.Create(ctx, fields)
			assert.ErrorIs(t, err, ErrInvalidInput)

			n, err := svc.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
			assert.Empty(t, pub.types())

			created, err := svc.Create(ctx, validFields())
			require.NoError(t, err)
			fields = created.Fields()
			mutate(&fields)
			_, err = svc.Update(ctx, created.ID, fields)
			assert.ErrorIs(t, err, ErrInvalidInput)

			got, err := svc.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, validFields(), got.Fields())
		})
	}
}

func TestIDsStrictlyIncreaseAcrossDeletes(t *testing.T) {
	ctx := context.Background()
	svc := newService(&fakePublisher{})

	last := 0
	for i := 0; i < 5; i++ {
		p, err := svc.Create(ctx, validFields())
		require.NoError(t, err)
		assert.Greater(t, p.ID, last)
		last = p.ID
		if i%2 == 0 {
			require.NoError(t, svc.Delete(ctx, p.ID))
		}
	}
}

func TestUpdateKeepsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	later := fixedNow.Add(48 * time.Hour)
	svc := newService(&fakePublisher{})
	created, err := svc.Create(ctx, validFields())
	require.NoError(t, err)
	svc.clock = func() time.Time { return later }

	fields := validFields()
	fields.Title = "Senior Engineer"
	updated, err := svc.Update(ctx, created.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Senior Engineer", updated.Title)
}

func TestUpdateMissingIDWinsOverValidation(t *testing.T) {
	svc := newService(&fakePublisher{})
	_, err := svc.Update(context.Background(), 9, models.JobPostFormData{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(&fakePublisher{})
	p, err := svc.Create(ctx, validFields())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestLifecycleEventsPublished(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(pub)

	p, err := svc.Create(ctx, validFields())
	require.NoError(t, err)
	_, err = svc.Update(ctx, p.ID, validFields())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	assert.Equal(t, []string{events.JobPostCreated, events.JobPostUpdated, events.JobPostDeleted}, pub.types())
	assert.Nil(t, pub.events[2].Post)
	assert.Equal(t, p.ID, pub.events[0].Post.ID)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc := newService(&fakePublisher{err: errors.New("broker down")})
	p, err := svc.Create(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
}
