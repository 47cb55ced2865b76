package ports

import (
	"context"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// PostFilter carries optional criteria for post queries. A zero field means
// "no constraint". The relational variant translates the filter into a
// WHERE clause; the file variant matches posts in memory. Both must agree
// with the domain access predicates.
type PostFilter struct {
	AuthorID       string            // author_id equality
	Status         domain.PostStatus // status equality
	IdempotencyKey string            // idempotency_key equality
	// AccessibleBy matches posts the given user may read: owned by them or
	// published. Used by the file-access gate.
	AccessibleBy string
	// ImageFileName matches posts carrying an image with this stored name.
	ImageFileName string
}

// PostRepository defines persistence for the post aggregate.
type PostRepository interface {
	// AddPost persists a new post. It enforces idempotency-key uniqueness
	// atomically with the insert and returns domain.ErrIdempotencyKeyUsed
	// when the key is already taken.
	AddPost(ctx context.Context, post *domain.Post) error
	// GetPostByID returns the post with its images eagerly loaded, or
	// domain.ErrPostNotFound.
	GetPostByID(ctx context.Context, postID string) (*domain.Post, error)
	GetPosts(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
	PostExists(ctx context.Context, filter PostFilter) (bool, error)
	// UpdatePost persists the aggregate as one logical update: the post row,
	// the removal of any detached images, and the insert of newImage when it
	// is non-nil.
	UpdatePost(ctx context.Context, post *domain.Post, newImage *domain.Image) error
}
