package api

import (
	"time"

	"github.com/henhouse-dev/henhouse/shared/domain"
)

// Request DTOs shared by the API client and the frontend form handlers

// CreateStoryRequest creates an unpublished story.
type CreateStoryRequest struct {
	Title    string              `json:"title" validate:"required"`
	Synopsis string              `json:"synopsis"`
	Category domain.CategoryName `json:"category" validate:"required"`
	Tags     []domain.TagName    `json:"tags"`
}

// UpdateStoryRequest is sent as a PATCH: unset fields are left alone and
// a null PublishedAt unpublishes the story.
type UpdateStoryRequest struct {
	Title       domain.Optional[string]              `json:"title,omitzero"`
	Synopsis    domain.Optional[string]              `json:"synopsis,omitzero"`
	Category    domain.Optional[domain.CategoryName] `json:"category,omitzero"`
	Tags        domain.Optional[[]domain.TagName]    `json:"tags,omitzero"`
	PublishedAt domain.Optional[time.Time]           `json:"publishedAt,omitzero"`
}

// CreateChapterRequest appends a chapter to a story.
type CreateChapterRequest struct {
	Name     string `json:"name" validate:"required"`
	Synopsis string `json:"synopsis"`
	Markdown string `json:"markdown" validate:"required"`
}

// UpdateChapterRequest is sent as a PATCH, like UpdateStoryRequest.
type UpdateChapterRequest struct {
	Name        domain.Optional[string]    `json:"name,omitzero"`
	Synopsis    domain.Optional[string]    `json:"synopsis,omitzero"`
	Markdown    domain.Optional[string]    `json:"markdown,omitzero"`
	PublishedAt domain.Optional[time.Time] `json:"publishedAt,omitzero"`
}
