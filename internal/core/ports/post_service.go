package ports

import (
	"context"
	"io"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// CreatePostInput carries everything needed to create a draft post.
type CreatePostInput struct {
	AuthorID       string
	Title          string
	Content        string
	IdempotencyKey string
}

// EditPostInput carries a title/content update for an existing post.
type EditPostInput struct {
	UserID  string
	PostID  string
	Title   string
	Content string
}

// AttachImageInput carries an uploaded file destined for a post.
type AttachImageInput struct {
	AuthorID         string
	PostID           string
	OriginalFilename string
	Data             io.Reader
}

// PostService defines the use-case operations of the post lifecycle engine.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	EditPost(ctx context.Context, input EditPostInput) (*domain.Post, error)
	PublishPost(ctx context.Context, userID, postID string) (*domain.Post, error)
	AttachImage(ctx context.Context, input AttachImageInput) (*domain.Image, error)
	DetachImage(ctx context.Context, userID, postID, imageID string) error
	// GetPost returns the post when it is visible to the caller, and
	// domain.ErrPostNotFound otherwise; invisibility is indistinguishable
	// from absence.
	GetPost(ctx context.Context, userID, postID string) (*domain.Post, error)
	ListForAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	// UserHasAccessToFile is the gate consulted before serving raw file
	// bytes. It is evaluated against the store on every call and must never
	// be cached: both authorship and publication status can change between
	// requests.
	UserHasAccessToFile(ctx context.Context, userID, fileName string) (bool, error)
	// OpenFile streams a stored file after resolving its content type.
	OpenFile(ctx context.Context, fileName string) (io.ReadCloser, string, error)
}
