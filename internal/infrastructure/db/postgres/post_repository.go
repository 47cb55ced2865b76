package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// PostRepository is the relational variant of the post store. Images are
// loaded eagerly with every post read, so callers always see the whole
// aggregate.
type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// AddPost inserts the post row. The unique index on idempotency_key makes
// the uniqueness check atomic with the insert: a concurrent create with
// the same key loses the race and gets ErrIdempotencyKeyUsed.
func (r *PostRepository) AddPost(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `
		INSERT INTO posts (post_id, author_id, idempotency_key, title, content, status, created_at, updated_at)
		VALUES (:post_id, :author_id, :idempotency_key, :title, :content, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdempotencyKeyUsed
		}
		return storageErr("insert post", err)
	}
	return nil
}

func (r *PostRepository) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var post domain.Post
	if err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE post_id = $1`, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, storageErr("select post", err)
	}

	if err := r.loadImages(ctx, []*domain.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetPosts(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := buildWhere(filter)

	var posts []*domain.Post
	if err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts p`+where+` ORDER BY p.created_at`, args...); err != nil {
		return nil, storageErr("select posts", err)
	}

	if err := r.loadImages(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) PostExists(ctx context.Context, filter ports.PostFilter) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := buildWhere(filter)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts p`+where+`)`, args...); err != nil {
		return false, storageErr("post exists", err)
	}
	return exists, nil
}

// UpdatePost persists the aggregate inside one transaction: the post row,
// the removal of image rows that are no longer part of the aggregate, and
// the insert of newImage when given.
func (r *PostRepository) UpdatePost(ctx context.Context, post *domain.Post, newImage *domain.Image) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin update post", err)
	}
	defer func() { _ = tx.Rollback() }()

	const update = `
		UPDATE posts SET
			title = :title,
			content = :content,
			status = :status,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`
	res, err := tx.NamedExecContext(ctx, update, post)
	if err != nil {
		return storageErr("update post", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update post", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	if err := r.syncImages(ctx, tx, post); err != nil {
		return err
	}

	if newImage != nil {
		const insert = `
			INSERT INTO images (image_id, post_id, file_name, created_at)
			VALUES (:image_id, :post_id, :file_name, :created_at)
		`
		if _, err := tx.NamedExecContext(ctx, insert, newImage); err != nil {
			return storageErr("insert image", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit update post", err)
	}
	return nil
}

// syncImages deletes image rows that were removed from the aggregate. Rows
// for images still attached (including one being inserted in the same
// transaction) are kept.
func (r *PostRepository) syncImages(ctx context.Context, tx *sqlx.Tx, post *domain.Post) error {
	if len(post.Images) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE post_id = $1`, post.ID); err != nil {
			return storageErr("delete images", err)
		}
		return nil
	}

	kept := make([]string, 0, len(post.Images))
	for i := range post.Images {
		kept = append(kept, post.Images[i].ID)
	}

	query, args, err := sqlx.In(`DELETE FROM images WHERE post_id = ? AND image_id NOT IN (?)`, post.ID, kept)
	if err != nil {
		return storageErr("delete images", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return storageErr("delete images", err)
	}
	return nil
}

// loadImages attaches the image rows to their posts in one query.
func (r *PostRepository) loadImages(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(posts))
	byID := make(map[string]*domain.Post, len(posts))
	for _, p := range posts {
		p.Images = []domain.Image{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	query, args, err := sqlx.In(`SELECT * FROM images WHERE post_id IN (?) ORDER BY created_at`, ids)
	if err != nil {
		return storageErr("select images", err)
	}

	var images []domain.Image
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return storageErr("select images", err)
	}

	for _, img := range images {
		if p, ok := byID[img.PostID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return nil
}

// buildWhere translates a PostFilter into a WHERE clause. The
// AccessibleBy condition must stay equivalent to domain.Post.VisibleTo.
func buildWhere(filter ports.PostFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AuthorID != "" {
		add("p.author_id = $%d", filter.AuthorID)
	}
	if filter.Status != "" {
		add("p.status = $%d", string(filter.Status))
	}
	if filter.IdempotencyKey != "" {
		add("p.idempotency_key = $%d", filter.IdempotencyKey)
	}
	if filter.AccessibleBy != "" {
		add("(p.author_id = $%d OR p.status = 'Published')", filter.AccessibleBy)
	}
	if filter.ImageFileName != "" {
		add("EXISTS (SELECT 1 FROM images i WHERE i.post_id = p.post_id AND i.file_name = $%d)", filter.ImageFileName)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
