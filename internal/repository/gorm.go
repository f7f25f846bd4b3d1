package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/job-posts/internal/models"
)

// formColumns are the columns an update may touch.
var formColumns = []string{"title", "department", "employment_type", "description", "location", "deadline"}

// GormRepository stores posts in a SQL database through gorm.
// Auto-increment keys keep ids unique and unreused across deletes.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) List(ctx context.Context) ([]models.JobPost, error) {
	var posts []models.JobPost
	if err := r.DB.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list job posts: %w", err)
	}
	return posts, nil
}

func (r *GormRepository) Get(ctx context.Context, id int) (models.JobPost, error) {
	return first(r.DB.WithContext(ctx), id)
}

func (r *GormRepository) Create(ctx context.Context, post models.JobPost) (models.JobPost, error) {
	post.ID = 0
	if err := r.DB.WithContext(ctx).Create(&post).Error; err != nil {
		return models.JobPost{}, fmt.Errorf("create job post: %w", err)
	}
	return post, nil
}

func (r *GormRepository) Update(ctx context.Context, id int, fields models.JobPostFormData) (models.JobPost, error) {
	var updated models.JobPost
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := first(tx, id)
		if err != nil {
			return err
		}
		err = tx.Model(&post).Select(formColumns).Updates(models.JobPost{JobPostFormData: fields}).Error
		if err != nil {
			return fmt.Errorf("update job post %d: %w", id, err)
		}
		post.JobPostFormData = fields
		updated = post
		return nil
	})
	return updated, err
}

func (r *GormRepository) Delete(ctx context.Context, id int) (models.JobPost, error) {
	var removed models.JobPost
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := first(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete job post %d: %w", id, err)
		}
		removed = post
		return nil
	})
	return removed, err
}

func (r *GormRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.JobPost{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count job posts: %w", err)
	}
	return int(n), nil
}

func first(db *gorm.DB, id int) (models.JobPost, error) {
	var post models.JobPost
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.JobPost{}, ErrNotFound
		}
		return models.JobPost{}, fmt.Errorf("load job post %d: %w", id, err)
	}
	return post, nil
}
