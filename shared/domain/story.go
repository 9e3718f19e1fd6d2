package domain

import "time"

// Story is the summary shape returned by story listings.
type Story struct {
	UUID        StoryId    `json:"uuid" validate:"uuid"`
	Title       string     `json:"title"`
	Synopsis    string     `json:"synopsis"`
	Creator     UserId     `json:"creator" validate:"uuid"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// Published reports whether the story has a publication date.
func (s Story) Published() bool {
	return s.PublishedAt != nil
}

// StoryDetails extends Story with the fields of a single-story read.
type StoryDetails struct {
	Story
	Category  CategoryName `json:"category"`
	Tags      []TagName    `json:"tags"`
	CreatedAt time.Time    `json:"createdAt"`
}
