package domain

// Tag is a free-form label attached to stories.
type Tag struct {
	UUID  string  `json:"uuid" validate:"uuid"`
	Name  TagName `json:"name"`
	Index int     `json:"index"`
}

type TagDetails struct {
	Tag
}

// Category is one of the backend's fixed story categories, keyed by Name.
type Category struct {
	Name        CategoryName `json:"name" validate:"required"`
	PrettyName  string       `json:"prettyName"`
	Description string       `json:"description"`
}

type CategoryDetails struct {
	Category
}
