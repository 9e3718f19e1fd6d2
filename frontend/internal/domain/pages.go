package frontend_domain

import (
	"html/template"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

type StoriesPageData struct {
	Stories    []apiclient.StoryWithUser
	Total      int
	Search     string
	Pagination Pagination
	Heading    string
}

type SearchPageData struct {
	Form       SearchForm
	Categories []domain.Category
	Ranges     []Option
	Sorts      []Option
	Results    []apiclient.StoryWithUser
	Total      int
	Searched   bool
	Pagination Pagination
}

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// SearchForm is the advanced search form as the user filled it in.
type SearchForm struct {
	Title      string
	Synopsis   string
	StoryText  string
	Tags       string
	Range      string // 1d, 1w, 1M, 3M, 6M, 1y or any
	Newer      bool   // newer than Range instead of older
	Categories []string
	Sort       string
	AuthorName string
}

// HasCategory is used by the template to keep checkboxes ticked.
func (f SearchForm) HasCategory(name string) bool {
	for _, c := range f.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ChapterLink is a chapter entry in a story's table of contents.
type ChapterLink struct {
	domain.Chapter
	Number int // position in the story, 0-based, used in /stories/{id}/{n}
}

type StoryPageData struct {
	Story    apiclient.StoryWithUser
	Chapters []ChapterLink
	IsOwner  bool
}

type ChapterPageData struct {
	Story    apiclient.StoryWithUser
	Chapter  domain.ChapterDetails
	Number   int
	Total    int
	Body     template.HTML
	Minutes  int
	Previous *ChapterLink
	Next     *ChapterLink
	IsOwner  bool
}

// StoryForm backs both the create and edit story pages.
type StoryForm struct {
	StoryID    domain.StoryId
	Title      string
	Synopsis   string
	Category   string
	Tags       string // comma separated
	Published  bool
	Categories []domain.Category
	Errors     map[string]string
}

// ChapterForm backs both the create and edit chapter pages.
type ChapterForm struct {
	StoryID   domain.StoryId
	StoryName string
	ChapterID domain.ChapterId
	Number    int
	Name      string
	Synopsis  string
	Markdown  string
	Published bool
	Errors    map[string]string
}

// AuthForm backs the login and register pages.
type AuthForm struct {
	Username      string
	Email         string
	UsernameEmail string
	StayLoggedIn  bool
	RedirectTo    string
	Errors        map[string]string
}

type UserPageData struct {
	User       domain.UserDetails
	Attributes []Attribute
	Errors     map[string]string
}

// Attribute is one editable user attribute row.
type Attribute struct {
	Key   string
	Value string
}

// PublicConfig is served as /assets/config.json for browser scripts.
type PublicConfig struct {
	APIHost          string `json:"apiHost"`
	DefaultPageLimit int    `json:"defaultPageLimit"`
}
