package handler

import (
	"github.com/webblog/publishing-api/internal/core/domain"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

func toPostResponse(p *domain.Post) postResponse {
	images := make([]imageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, toImageResponse(&img))
	}
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Images:    images,
	}
}

func toImageResponse(img *domain.Image) imageResponse {
	return imageResponse{
		ID:        img.ID,
		FileName:  img.FileName,
		URL:       "/api/images/" + img.FileName,
		CreatedAt: img.CreatedAt,
	}
}

func toPostListResponse(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
