package domain

import "time"

// PostStatus represents the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "Draft"
	StatusPublished PostStatus = "Published"
)

// CanTransitionTo reports whether a status change is valid. The only legal
// transition is Draft → Published; there is no way back.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	return s == StatusDraft && next == StatusPublished
}

// Post is the core aggregate root: a piece of content together with its
// attached images, updated as one consistency unit.
type Post struct {
	ID             string     `json:"id" db:"post_id"`
	AuthorID       string     `json:"author_id" db:"author_id"`
	IdempotencyKey string     `json:"idempotency_key" db:"idempotency_key"`
	Title          string     `json:"title" db:"title"`
	Content        string     `json:"content" db:"content"`
	Status         PostStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	Images         []Image    `json:"images" db:"-"`
}

// Image is an attachment owned exclusively by its parent post. FileName is
// the opaque stored reference returned by the file store.
type Image struct {
	ID        string    `json:"id" db:"image_id"`
	PostID    string    `json:"post_id" db:"post_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FindImage returns the attached image with the given id, or nil.
func (p *Post) FindImage(imageID string) *Image {
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			return &p.Images[i]
		}
	}
	return nil
}

// RemoveImage drops the image with the given id from the aggregate.
// It reports whether an image was removed.
func (p *Post) RemoveImage(imageID string) bool {
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			return true
		}
	}
	return false
}
