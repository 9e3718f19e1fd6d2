package domain

type (
	StoryId      = string
	ChapterId    = string
	UserId       = string
	TagName      = string
	CategoryName = string
	Email        = string
	Password     = string
	Username     = string

	// SearchExpr is a backend search expression such as title:"hen".
	SearchExpr = string
)

// Page is one slice of a collection together with the size of the whole
// collection.
type Page[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// Sortable story fields understood by the backend.
const (
	SortStoryTitle       = "title"
	SortStoryCreatedAt   = "createdAt"
	SortStoryPublishedAt = "publishedAt"
)

// Sortable chapter fields understood by the backend.
const (
	SortChapterIndex = "index"
	SortChapterName  = "name"
)
