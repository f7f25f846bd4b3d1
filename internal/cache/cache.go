// Package cache keeps a local copy of the job post collection for views.
//
// The server owns the collection. The cache only changes in response to the
// outcome of its own requests and is never pushed to, so two caches can drift
// apart until they reload.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/justsurfingit/job-posts/internal/models"
)

type CreateStatus string

const (
	CreateIdle    CreateStatus = "idle"
	CreateLoading CreateStatus = "loading"
	CreateSuccess CreateStatus = "success"
	CreateError   CreateStatus = "error"
)

const (
	defaultLoadError   = "Failed to fetch job posts"
	defaultCreateError = "Failed to create job post"
)

// State is what views render. Error and CreateError are empty when absent.
type State struct {
	Posts        []models.JobPost
	Loading      bool
	Error        string
	CreateStatus CreateStatus
	CreateError  string
}

func (s State) clone() State {
	s.Posts = slices.Clone(s.Posts)
	return s
}

// API is the remote store. *client.Client satisfies it.
type API interface {
	ListJobPosts(ctx context.Context) ([]models.JobPost, error)
	GetJobPost(ctx context.Context, id int) (models.JobPost, error)
	CreateJobPost(ctx context.Context, data models.JobPostFormData) (models.JobPost, error)
	UpdateJobPost(ctx context.Context, id int, data models.JobPostFormData) (models.JobPost, error)
	DeleteJobPost(ctx context.Context, id int) error
}

// JobPostsCache mirrors the server collection. Every method blocks until its
// request finishes; run them in goroutines to keep a view responsive.
type JobPostsCache struct {
	api API

	mu          sync.Mutex
	state       State
	loadSeq     uint64 // token of the newest Load
	subscribers map[int]func(State)
	nextSubID   int
}

func New(api API) *JobPostsCache {
	return &JobPostsCache{
		api: api,
		state: State{
			Posts:        []models.JobPost{},
			CreateStatus: CreateIdle,
		},
		subscribers: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (c *JobPostsCache) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive the state after every change. fn runs on
// the goroutine that made the change and must not call back into the cache
// synchronously. The returned func unregisters it.
func (c *JobPostsCache) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Load replaces the local posts with the server's list. Only the newest Load
// may change state: a response that arrives after a later Load was issued is
// dropped, and Loading stays set until the newest one finishes. The request's
// own error is returned either way.
func (c *JobPostsCache) Load(ctx context.Context) error {
	var token uint64
	c.update(func(s *State) {
		c.loadSeq++
		token = c.loadSeq
		s.Loading = true
		s.Error = ""
	})

	posts, err := c.api.ListJobPosts(ctx)

	c.update(func(s *State) {
		if token != c.loadSeq {
			return
		}
		s.Loading = false
		if err != nil {
			s.Error = message(err, defaultLoadError)
			return
		}
		s.Posts = slices.Clone(posts)
		if s.Posts == nil {
			s.Posts = []models.JobPost{}
		}
	})
	return err
}

// Create sends a new post and puts the stored record at the front of the
// local list without reloading. CreateStatus stays at success or error until
// ResetCreateStatus.
func (c *JobPostsCache) Create(ctx context.Context, data models.JobPostFormData) (models.JobPost, error) {
	c.update(func(s *State) {
		s.CreateStatus = CreateLoading
		s.CreateError = ""
	})

	post, err := c.api.CreateJobPost(ctx, data)

	c.update(func(s *State) {
		if err != nil {
			s.CreateStatus = CreateError
			s.CreateError = message(err, defaultCreateError)
			return
		}
		s.CreateStatus = CreateSuccess
		s.Posts = slices.Insert(s.Posts, 0, post)
	})
	return post, err
}

// ResetCreateStatus returns CreateStatus to idle and clears CreateError.
func (c *JobPostsCache) ResetCreateStatus() {
	c.update(func(s *State) {
		s.CreateStatus = CreateIdle
		s.CreateError = ""
	})
}

// Update replaces a post and swaps the stored record into the local list in
// place. Failures only come back as the returned error.
func (c *JobPostsCache) Update(ctx context.Context, id int, data models.JobPostFormData) (models.JobPost, error) {
	post, err := c.api.UpdateJobPost(ctx, id, data)
	if err != nil {
		return models.JobPost{}, err
	}
	c.update(func(s *State) {
		if i := indexOf(s.Posts, post.ID); i != -1 {
			s.Posts[i] = post
		}
	})
	return post, nil
}

// Delete removes a post remotely, then locally. Failures only come back as
// the returned error.
func (c *JobPostsCache) Delete(ctx context.Context, id int) error {
	if err := c.api.DeleteJobPost(ctx, id); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Posts = slices.DeleteFunc(s.Posts, func(p models.JobPost) bool { return p.ID == id })
	})
	return nil
}

// Get fetches one post from the server without touching the cached state.
func (c *JobPostsCache) Get(ctx context.Context, id int) (models.JobPost, error) {
	return c.api.GetJobPost(ctx, id)
}

// update applies fn under the lock and then notifies subscribers.
func (c *JobPostsCache) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot.clone())
	}
}

func indexOf(posts []models.JobPost, id int) int {
	return slices.IndexFunc(posts, func(p models.JobPost) bool { return p.ID == id })
}

func message(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
