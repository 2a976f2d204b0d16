package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/welldanyogia/webrana-posts-backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository using GORM
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post; ID and timestamps are filled in on success
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.Title == "" {
		return fmt.Errorf("post title is empty: %w", ErrInvalidInput)
	}
	result := r.db.WithContext(ctx).Create(post)
	if result.Error != nil {
		return fmt.Errorf("failed to create post: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a post by its ID
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	result := r.db.WithContext(ctx).First(&post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", result.Error)
	}
	return &post, nil
}

// List returns a page of posts ordered by ID along with the total count
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	result := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", result.Error)
	}
	return posts, total, nil
}

// Update replaces the title of an existing post and refreshes updated_at.
// The post must carry a non-zero ID.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if post.ID == 0 {
		return fmt.Errorf("post ID is zero: %w", ErrInvalidInput)
	}
	if post.Title == "" {
		return fmt.Errorf("post title is empty: %w", ErrInvalidInput)
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	post.UpdatedAt = now
	return nil
}

// Delete removes a post by its ID
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
