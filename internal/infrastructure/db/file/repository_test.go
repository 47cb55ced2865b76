package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

var baseTime = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func sampleUser(email string) *domain.User {
	return &domain.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleAuthor,
	}
}

func samplePost(id, authorID, key string) *domain.Post {
	return &domain.Post{
		ID:             id,
		AuthorID:       authorID,
		IdempotencyKey: key,
		Title:          "title " + id,
		Content:        "content",
		Status:         domain.StatusDraft,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

func TestUserRepository_RoundTrip(t *testing.T) {
	repo := NewUserRepository(t.TempDir())
	ctx := context.Background()
	user := sampleUser("a@x.com")
	user.RefreshToken = "tok"
	user.RefreshTokenExpiry = baseTime.Add(7 * 24 * time.Hour)

	if err := repo.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Error("password hash not persisted")
	}
	if got.RefreshToken != "tok" || !got.RefreshTokenExpiry.Equal(user.RefreshTokenExpiry) {
		t.Error("refresh token state not persisted")
	}

	byToken, err := repo.GetUserByRefreshToken(ctx, "tok")
	if err != nil {
		t.Fatalf("GetUserByRefreshToken failed: %v", err)
	}
	if byToken.ID != user.ID {
		t.Errorf("got user %q, want %q", byToken.ID, user.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(t.TempDir())
	ctx := context.Background()

	if err := repo.AddUser(ctx, sampleUser("a@x.com")); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	dup := sampleUser("a@x.com")
	dup.ID = "other"
	if err := repo.AddUser(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(t.TempDir())
	ctx := context.Background()

	if _, err := repo.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByEmail: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetUserByRefreshToken(ctx, "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByRefreshToken: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetUserByRefreshToken(ctx, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("empty token: expected ErrUserNotFound, got %v", err)
	}
	if err := repo.UpdateUser(ctx, sampleUser("ghost@x.com")); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("UpdateUser: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateRotatesToken(t *testing.T) {
	repo := NewUserRepository(t.TempDir())
	ctx := context.Background()
	user := sampleUser("a@x.com")
	user.RefreshToken = "old"

	if err := repo.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	user.RefreshToken = "new"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if _, err := repo.GetUserByRefreshToken(ctx, "old"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("old token still resolves: %v", err)
	}
	if _, err := repo.GetUserByRefreshToken(ctx, "new"); err != nil {
		t.Errorf("new token does not resolve: %v", err)
	}
}

func TestUserRepository_CorruptedStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := NewUserRepository(dir)
	ctx := context.Background()

	if _, err := repo.GetUserByEmail(ctx, "a@x.com"); !errors.Is(err, domain.ErrCorruptedStore) {
		t.Fatalf("expected ErrCorruptedStore, got %v", err)
	}
	// a corrupted snapshot must never be silently replaced
	if err := repo.AddUser(ctx, sampleUser("a@x.com")); !errors.Is(err, domain.ErrCorruptedStore) {
		t.Fatalf("expected ErrCorruptedStore on write path, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{not json" {
		t.Error("corrupted snapshot was rewritten")
	}
}

// ---------------------------------------------------------------------------
// posts
// ---------------------------------------------------------------------------

func TestPostRepository_RoundTrip(t *testing.T) {
	repo := NewPostRepository(t.TempDir())
	ctx := context.Background()
	post := samplePost("p1", "author-1", "key-1")
	post.Images = []domain.Image{{ID: "img-1", PostID: "p1", FileName: "f.png", CreatedAt: baseTime}}

	if err := repo.AddPost(ctx, post); err != nil {
		t.Fatalf("AddPost failed: %v", err)
	}

	got, err := repo.GetPostByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if got.Title != post.Title || len(got.Images) != 1 || got.Images[0].FileName != "f.png" {
		t.Errorf("unexpected post: %+v", got)
	}

	// the returned aggregate is a copy, not an alias into the store
	got.Images[0].FileName = "mutated"
	again, err := repo.GetPostByID(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if again.Images[0].FileName != "f.png" {
		t.Error("stored aggregate was mutated through a returned copy")
	}
}

func TestPostRepository_DuplicateIdempotencyKey(t *testing.T) {
	repo := NewPostRepository(t.TempDir())
	ctx := context.Background()

	if err := repo.AddPost(ctx, samplePost("p1", "author-1", "key-1")); err != nil {
		t.Fatalf("AddPost failed: %v", err)
	}
	if err := repo.AddPost(ctx, samplePost("p2", "author-2", "key-1")); !errors.Is(err, domain.ErrIdempotencyKeyUsed) {
		t.Fatalf("expected ErrIdempotencyKeyUsed, got %v", err)
	}
}

func TestPostRepository_Filters(t *testing.T) {
	repo := NewPostRepository(t.TempDir())
	ctx := context.Background()

	draft := samplePost("p1", "author-1", "key-1")
	published := samplePost("p2", "author-1", "key-2")
	published.Status = domain.StatusPublished
	published.CreatedAt = baseTime.Add(time.Hour)
	published.Images = []domain.Image{{ID: "img-1", PostID: "p2", FileName: "pub.png", CreatedAt: baseTime}}
	other := samplePost("p3", "author-2", "key-3")
	other.CreatedAt = baseTime.Add(2 * time.Hour)

	for _, p := range []*domain.Post{draft, published, other} {
		if err := repo.AddPost(ctx, p); err != nil {
			t.Fatalf("AddPost(%s) failed: %v", p.ID, err)
		}
	}

	byAuthor, err := repo.GetPosts(ctx, ports.PostFilter{AuthorID: "author-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byAuthor) != 2 || byAuthor[0].ID != "p1" || byAuthor[1].ID != "p2" {
		t.Errorf("author filter: got %d posts in order %v", len(byAuthor), ids(byAuthor))
	}

	publishedOnly, err := repo.GetPosts(ctx, ports.PostFilter{Status: domain.StatusPublished})
	if err != nil {
		t.Fatal(err)
	}
	if len(publishedOnly) != 1 || publishedOnly[0].ID != "p2" {
		t.Errorf("status filter: got %v", ids(publishedOnly))
	}

	exists, err := repo.PostExists(ctx, ports.PostFilter{IdempotencyKey: "key-3"})
	if err != nil || !exists {
		t.Errorf("idempotency key filter: exists=%v err=%v", exists, err)
	}

	// a stranger can reach a published post's image but not a draft's
	ok, err := repo.PostExists(ctx, ports.PostFilter{AccessibleBy: "stranger", ImageFileName: "pub.png"})
	if err != nil || !ok {
		t.Errorf("published image access: ok=%v err=%v", ok, err)
	}
	ok, err = repo.PostExists(ctx, ports.PostFilter{AccessibleBy: "stranger", ImageFileName: "draft.png"})
	if err != nil || ok {
		t.Errorf("draft image access: ok=%v err=%v", ok, err)
	}
}

func TestPostRepository_UpdatePost(t *testing.T) {
	repo := NewPostRepository(t.TempDir())
	ctx := context.Background()
	post := samplePost("p1", "author-1", "key-1")

	if err := repo.AddPost(ctx, post); err != nil {
		t.Fatal(err)
	}

	post.Title = "edited"
	post.Status = domain.StatusPublished
	post.Images = []domain.Image{{ID: "img-1", PostID: "p1", FileName: "f.png", CreatedAt: baseTime}}
	if err := repo.UpdatePost(ctx, post, &post.Images[0]); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := repo.GetPostByID(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "edited" || got.Status != domain.StatusPublished || len(got.Images) != 1 {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := repo.UpdatePost(ctx, samplePost("ghost", "author-1", "key-9"), nil); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepository_CorruptedStore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "posts.json"), []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := NewPostRepository(dir)

	if _, err := repo.GetPosts(context.Background(), ports.PostFilter{}); !errors.Is(err, domain.ErrCorruptedStore) {
		t.Fatalf("expected ErrCorruptedStore, got %v", err)
	}
}

func ids(posts []*domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
