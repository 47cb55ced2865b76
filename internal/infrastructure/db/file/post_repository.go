package file

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// PostRepository stores posts, images embedded, as a JSON list in a
// single file. The mutex makes every operation, including the
// idempotency-key uniqueness check inside AddPost, atomic.
type PostRepository struct {
	mu   sync.Mutex
	path string
}

func NewPostRepository(dataDir string) *PostRepository {
	return &PostRepository{path: filepath.Join(dataDir, "posts.json")}
}

func (r *PostRepository) AddPost(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.IdempotencyKey == post.IdempotencyKey {
			return domain.ErrIdempotencyKeyUsed
		}
	}
	posts = append(posts, *clonePost(post))
	return writeSnapshot(r.path, posts)
}

func (r *PostRepository) GetPostByID(_ context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == postID {
			return clonePost(&posts[i]), nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *PostRepository) GetPosts(_ context.Context, filter ports.PostFilter) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []*domain.Post
	for i := range posts {
		if matches(&posts[i], filter) {
			out = append(out, clonePost(&posts[i]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PostRepository) PostExists(_ context.Context, filter ports.PostFilter) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return false, err
	}
	for i := range posts {
		if matches(&posts[i], filter) {
			return true, nil
		}
	}
	return false, nil
}

// UpdatePost replaces the stored aggregate wholesale. The newImage
// argument exists for backends that persist images separately; here the
// post already carries its full image list.
func (r *PostRepository) UpdatePost(_ context.Context, post *domain.Post, _ *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].ID == post.ID {
			posts[i] = *clonePost(post)
			return writeSnapshot(r.path, posts)
		}
	}
	return domain.ErrPostNotFound
}

// matches mirrors the WHERE clause the relational backend builds from
// the same filter. AccessibleBy must stay equivalent to Post.VisibleTo.
func matches(p *domain.Post, f ports.PostFilter) bool {
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.IdempotencyKey != "" && p.IdempotencyKey != f.IdempotencyKey {
		return false
	}
	if f.AccessibleBy != "" && !p.VisibleTo(f.AccessibleBy) {
		return false
	}
	if f.ImageFileName != "" {
		found := false
		for i := range p.Images {
			if p.Images[i].FileName == f.ImageFileName {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Images = append([]domain.Image(nil), p.Images...)
	return &cp
}

func (r *PostRepository) load() ([]domain.Post, error) {
	var posts []domain.Post
	if err := readSnapshot(r.path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
