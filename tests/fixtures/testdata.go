package fixtures

import (
	"fmt"
	"time"

	"github.com/welldanyogia/webrana-posts-backend/internal/models"
)

// PostBuilder creates test Post instances with fluent API
type PostBuilder struct {
	post models.Post
}

// NewPostBuilder creates a new PostBuilder with sensible defaults
func NewPostBuilder() *PostBuilder {
	now := time.Now()
	return &PostBuilder{
		post: models.Post{
			ID:        1,
			Title:     "Hello world",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the post ID
func (b *PostBuilder) WithID(id uint) *PostBuilder {
	b.post.ID = id
	return b
}

// WithTitle sets the post title
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.post.Title = title
	return b
}

// WithCreatedAt sets the creation timestamp
func (b *PostBuilder) WithCreatedAt(t time.Time) *PostBuilder {
	b.post.CreatedAt = t
	return b
}

// WithUpdatedAt sets the update timestamp
func (b *PostBuilder) WithUpdatedAt(t time.Time) *PostBuilder {
	b.post.UpdatedAt = t
	return b
}

// Build returns a pointer to the built Post
func (b *PostBuilder) Build() *models.Post {
	post := b.post
	return &post
}

// BuildValue returns the built Post as a value
func (b *PostBuilder) BuildValue() models.Post {
	return b.post
}

// UserBuilder creates test User instances with fluent API
type UserBuilder struct {
	user models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults
func NewUserBuilder() *UserBuilder {
	now := time.Now()
	return &UserBuilder{
		user: models.User{
			ID:        1,
			Name:      "Test User",
			Email:     "user@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the user ID
func (b *UserBuilder) WithID(id uint) *UserBuilder {
	b.user.ID = id
	return b
}

// WithName sets the user name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

// WithEmail sets the user email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithPasswordHash sets the stored bcrypt hash
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

// Build returns a pointer to the built User
func (b *UserBuilder) Build() *models.User {
	user := b.user
	return &user
}

// BuildValue returns the built User as a value
func (b *UserBuilder) BuildValue() models.User {
	return b.user
}

// CreatePosts creates a slice of posts with sequential IDs
func CreatePosts(count int) []models.Post {
	posts := make([]models.Post, count)
	for i := 0; i < count; i++ {
		posts[i] = NewPostBuilder().
			WithID(uint(i + 1)).
			WithTitle(generateTitle(i)).
			BuildValue()
	}
	return posts
}

func generateTitle(index int) string {
	titles := []string{
		"Welcome to the blog",
		"Release notes",
		"Important update",
		"Weekly digest",
		"Behind the scenes",
	}
	return fmt.Sprintf("%s #%d", titles[index%len(titles)], index+1)
}
