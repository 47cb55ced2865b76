package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// PostService implements the post lifecycle engine on top of a post
// repository and a file store. Every mutation runs the domain access
// policy before touching state.
type PostService struct {
	repo   ports.PostRepository
	files  ports.FileStore
	logger zerolog.Logger

	now func() time.Time
}

func NewPostService(repo ports.PostRepository, files ports.FileStore, logger zerolog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		files:  files,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost creates a draft post. A replayed idempotency key fails with
// ErrIdempotencyKeyUsed and creates nothing, which makes retried requests
// safe to resend. The repository re-checks the key atomically with the
// insert, so two concurrent creates with the same key cannot both win.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Title == "" || input.Content == "" || input.IdempotencyKey == "" {
		return nil, domain.ErrInvalidInput
	}

	used, err := s.repo.PostExists(ctx, ports.PostFilter{IdempotencyKey: input.IdempotencyKey})
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.ErrIdempotencyKeyUsed
	}

	now := s.now()
	post := &domain.Post{
		ID:             uuid.New().String(),
		AuthorID:       input.AuthorID,
		IdempotencyKey: input.IdempotencyKey,
		Title:          input.Title,
		Content:        input.Content,
		Status:         domain.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
		Images:         []domain.Image{},
	}

	if err := s.repo.AddPost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post created")
	return post, nil
}

// EditPost updates title and content. Edits are allowed in any status;
// publishing does not lock content.
func (s *PostService) EditPost(ctx context.Context, input ports.EditPostInput) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, input.UserID, input.PostID)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Content = input.Content
	post.UpdatedAt = s.now()

	if err := s.repo.UpdatePost(ctx, post, nil); err != nil {
		return nil, err
	}
	return post, nil
}

// PublishPost transitions Draft → Published. The transition is one-way;
// publishing a published post fails with ErrAlreadyPublished.
func (s *PostService) PublishPost(ctx context.Context, userID, postID string) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if !post.Status.CanTransitionTo(domain.StatusPublished) {
		return nil, domain.ErrAlreadyPublished
	}

	post.Status = domain.StatusPublished
	post.UpdatedAt = s.now()

	if err := s.repo.UpdatePost(ctx, post, nil); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Msg("post published")
	return post, nil
}

// AttachImage stores the uploaded bytes and appends an image record to the
// aggregate in one logical update.
func (s *PostService) AttachImage(ctx context.Context, input ports.AttachImageInput) (*domain.Image, error) {
	post, err := s.ownedPost(ctx, input.AuthorID, input.PostID)
	if err != nil {
		return nil, err
	}

	storedName, err := s.files.Save(ctx, input.OriginalFilename, input.Data)
	if err != nil {
		return nil, err
	}

	image := domain.Image{
		ID:        uuid.New().String(),
		PostID:    post.ID,
		FileName:  storedName,
		CreatedAt: s.now(),
	}
	post.Images = append(post.Images, image)
	post.UpdatedAt = s.now()

	if err := s.repo.UpdatePost(ctx, post, &image); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("image_id", image.ID).Msg("image attached")
	return &image, nil
}

// DetachImage deletes the stored file first and only then removes the
// record. When the file is already gone the operation fails and leaves the
// record in place: deleting the record too would hide a data-integrity
// problem behind an apparent success.
func (s *PostService) DetachImage(ctx context.Context, userID, postID, imageID string) error {
	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	image := post.FindImage(imageID)
	if image == nil {
		return domain.ErrImageNotFound
	}

	if err := s.files.Delete(ctx, image.FileName); err != nil {
		return err
	}

	post.RemoveImage(imageID)
	post.UpdatedAt = s.now()

	if err := s.repo.UpdatePost(ctx, post, nil); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", post.ID).Str("image_id", imageID).Msg("image detached")
	return nil
}

// GetPost returns a post visible to the caller. An existing but invisible
// post reads as not found, so drafts do not leak their existence.
func (s *PostService) GetPost(ctx context.Context, userID, postID string) (*domain.Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(userID) {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

// ListForAuthor returns every post of the author, drafts included.
func (s *PostService) ListForAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return s.repo.GetPosts(ctx, ports.PostFilter{AuthorID: authorID})
}

// ListPublished returns published posts only.
func (s *PostService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.GetPosts(ctx, ports.PostFilter{Status: domain.StatusPublished})
}

// UserHasAccessToFile reports whether some post both grants the caller
// visibility and references the file. It hits the repository on every call;
// the answer must never be cached because authorship and publication can
// change between requests.
func (s *PostService) UserHasAccessToFile(ctx context.Context, userID, fileName string) (bool, error) {
	return s.repo.PostExists(ctx, ports.PostFilter{
		AccessibleBy:  userID,
		ImageFileName: fileName,
	})
}

// OpenFile streams a stored file with its resolved content type.
func (s *PostService) OpenFile(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	return s.files.Open(ctx, fileName)
}

// ownedPost loads the post and enforces ownership for mutation.
func (s *PostService) ownedPost(ctx context.Context, userID, postID string) (*domain.Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Owns(userID) {
		return nil, domain.ErrForbidden
	}
	return post, nil
}
