package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/job-posts/internal/models"
)

type listReply struct {
	posts []models.JobPost
	err   error
}

// fakeAPI keeps posts in memory. When pending is set, every ListJobPosts call
// hands its reply channel to the test and waits on it.
type fakeAPI struct {
	mu      sync.Mutex
	posts   []models.JobPost
	nextID  int
	err     error
	pending chan chan listReply
}

func (f *fakeAPI) ListJobPosts(ctx context.Context) ([]models.JobPost, error) {
	if f.pending != nil {
		reply := make(chan listReply)
		f.pending <- reply
		r := <-reply
		return r.posts, r.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.JobPost{}, f.posts...), nil
}

func (f *fakeAPI) GetJobPost(ctx context.Context, id int) (models.JobPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.JobPost{}, errors.New("request failed with status code 404: Not found")
}

func (f *fakeAPI) CreateJobPost(ctx context.Context, data models.JobPostFormData) (models.JobPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.JobPost{}, f.err
	}
	f.nextID++
	p := models.JobPost{ID: f.nextID, JobPostFormData: data, CreatedAt: time.Now().UTC()}
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeAPI) UpdateJobPost(ctx context.Context, id int, data models.JobPostFormData) (models.JobPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.JobPost{}, f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].JobPostFormData = data
			return f.posts[i], nil
		}
	}
	return models.JobPost{}, errors.New("request failed with status code 404: Not found")
}

func (f *fakeAPI) DeleteJobPost(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return errors.New("request failed with status code 404: Not found")
}

func (f *fakeAPI) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func form(title string) models.JobPostFormData {
	return models.JobPostFormData{
		Title:          title,
		Department:     "Eng",
		EmploymentType: models.Internship,
		Description:    "<p>x</p>",
		Location:       "Remote",
		Deadline:       "2025-06-30",
	}
}

func TestLoadEmptyCollection(t *testing.T) {
	c := New(&fakeAPI{})
	require.NoError(t, c.Load(context.Background()))

	s := c.Snapshot()
	assert.NotNil(t, s.Posts)
	assert.Empty(t, s.Posts)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, CreateIdle, s.CreateStatus)
}

func TestLoadFailureKeepsPosts(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := New(api)
	_, err := c.Create(ctx, form("a"))
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx))

	api.fail(errors.New("connection refused"))
	assert.Error(t, c.Load(ctx))

	s := c.Snapshot()
	assert.False(t, s.Loading)
	assert.Equal(t, "connection refused", s.Error)
	assert.Len(t, s.Posts, 1)

	api.fail(nil)
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Snapshot().Error)
}

func TestCreatePrependsAndNeedsReset(t *testing.T) {
	ctx := context.Background()
	c := New(&fakeAPI{})

	_, err := c.Create(ctx, form("first"))
	require.NoError(t, err)
	_, err = c.Create(ctx, form("second"))
	require.NoError(t, err)

	s := c.Snapshot()
	assert.Equal(t, CreateSuccess, s.CreateStatus)
	require.Len(t, s.Posts, 2)
	assert.Equal(t, "second", s.Posts[0].Title)
	assert.Equal(t, "first", s.Posts[1].Title)

	c.ResetCreateStatus()
	assert.Equal(t, CreateIdle, c.Snapshot().CreateStatus)
}

func TestCreateFailure(t *testing.T) {
	api := &fakeAPI{}
	api.fail(errors.New("request failed with status code 400: All fields are required"))
	c := New(api)

	_, err := c.Create(context.Background(), form(""))
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, CreateError, s.CreateStatus)
	assert.Equal(t, "request failed with status code 400: All fields are required", s.CreateError)
	assert.Empty(t, s.Posts)

	c.ResetCreateStatus()
	s = c.Snapshot()
	assert.Equal(t, CreateIdle, s.CreateStatus)
	assert.Empty(t, s.CreateError)
}

type blankErr struct{}

func (blankErr) Error() string { return "" }

func TestDefaultMessages(t *testing.T) {
	api := &fakeAPI{}
	api.fail(blankErr{})
	c := New(api)
	ctx := context.Background()

	_ = c.Load(ctx)
	_, _ = c.Create(ctx, form("a"))

	s := c.Snapshot()
	assert.Equal(t, "Failed to fetch job posts", s.Error)
	assert.Equal(t, "Failed to create job post", s.CreateError)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	c := New(&fakeAPI{})
	for _, title := range []string{"a", "b", "c"} {
		_, err := c.Create(ctx, form(title))
		require.NoError(t, err)
	}
	require.NoError(t, c.Load(ctx))
	before := c.Snapshot().Posts

	updated, err := c.Update(ctx, 2, form("b2"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ID)

	after := c.Snapshot().Posts
	require.Len(t, after, 3)
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
	assert.Equal(t, "b2", after[1].Title)
}

func TestUpdateAndDeleteFailuresLeaveState(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := New(api)
	_, err := c.Create(ctx, form("a"))
	require.NoError(t, err)
	before := c.Snapshot()

	api.fail(errors.New("network down"))
	_, err = c.Update(ctx, 1, form("changed"))
	assert.EqualError(t, err, "network down")
	assert.EqualError(t, c.Delete(ctx, 1), "network down")

	assert.Equal(t, before, c.Snapshot())
}

func TestDeleteRemovesLocally(t *testing.T) {
	ctx := context.Background()
	c := New(&fakeAPI{})
	_, err := c.Create(ctx, form("a"))
	require.NoError(t, err)
	_, err = c.Create(ctx, form("b"))
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, 1))
	s := c.Snapshot()
	require.Len(t, s.Posts, 1)
	assert.Equal(t, 2, s.Posts[0].ID)

	assert.Error(t, c.Delete(ctx, 1))
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	api := &fakeAPI{pending: make(chan chan listReply)}
	c := New(api)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(ctx) }()
	first := <-api.pending

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(ctx) }()
	second := <-api.pending

	newer := []models.JobPost{{ID: 2, JobPostFormData: form("newer")}}
	older := []models.JobPost{{ID: 1, JobPostFormData: form("older")}}

	// The superseded request answers first: nothing changes, still loading.
	first <- listReply{posts: older}
	require.NoError(t, <-firstDone)
	s := c.Snapshot()
	assert.True(t, s.Loading)
	assert.Empty(t, s.Posts)

	second <- listReply{posts: newer}
	require.NoError(t, <-secondDone)
	s = c.Snapshot()
	assert.False(t, s.Loading)
	assert.Equal(t, newer, s.Posts)
}

func TestStaleLoadArrivingLastDoesNotOverwrite(t *testing.T) {
	api := &fakeAPI{pending: make(chan chan listReply)}
	c := New(api)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(ctx) }()
	first := <-api.pending

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(ctx) }()
	second := <-api.pending

	newer := []models.JobPost{{ID: 2, JobPostFormData: form("newer")}}
	second <- listReply{posts: newer}
	require.NoError(t, <-secondDone)

	first <- listReply{err: errors.New("timeout")}
	assert.Error(t, <-firstDone)

	s := c.Snapshot()
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, newer, s.Posts)
}

func TestSubscribe(t *testing.T) {
	c := New(&fakeAPI{})
	var mu sync.Mutex
	var seen []State
	unsubscribe := c.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	require.NoError(t, c.Load(context.Background()))
	unsubscribe()
	c.ResetCreateStatus()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	c := New(&fakeAPI{})
	_, err := c.Create(ctx, form("a"))
	require.NoError(t, err)

	s := c.Snapshot()
	s.Posts[0].Title = "mutated"
	assert.Equal(t, "a", c.Snapshot().Posts[0].Title)
}
