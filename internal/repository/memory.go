package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/justsurfingit/job-posts/internal/models"
)

// MemoryRepository keeps posts in process memory. Contents are lost on restart.
type MemoryRepository struct {
	mu     sync.Mutex
	posts  []models.JobPost
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.posts), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int) (models.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i == -1 {
		return models.JobPost{}, ErrNotFound
	}
	return r.posts[i], nil
}

func (r *MemoryRepository) Create(ctx context.Context, post models.JobPost) (models.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	r.posts = append(r.posts, post)
	return post, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int, fields models.JobPostFormData) (models.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i == -1 {
		return models.JobPost{}, ErrNotFound
	}
	r.posts[i].JobPostFormData = fields
	return r.posts[i], nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int) (models.JobPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i == -1 {
		return models.JobPost{}, ErrNotFound
	}
	removed := r.posts[i]
	r.posts = slices.Delete(r.posts, i, i+1)
	return removed, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts), nil
}

// indexOf must be called with mu held.
func (r *MemoryRepository) indexOf(id int) int {
	return slices.IndexFunc(r.posts, func(p models.JobPost) bool { return p.ID == id })
}
