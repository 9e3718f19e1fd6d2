package domain

import "time"

// Chapter is the table-of-contents entry of a chapter. Index orders
// chapters within their story.
type Chapter struct {
	UUID     ChapterId `json:"uuid" validate:"uuid"`
	Name     string    `json:"name"`
	Index    int       `json:"index"`
	Synopsis string    `json:"synopsis"`
}

// ChapterDetails adds the body and timestamps of a single-chapter read.
type ChapterDetails struct {
	Chapter
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt"`
	Markdown    string     `json:"markdown"`
	Story       StoryId    `json:"story" validate:"uuid"`
}
