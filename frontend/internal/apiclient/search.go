package apiclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/henhouse-dev/henhouse/shared/domain"
)

// FieldSearch builds a search expression matching value in field, e.g.
// title:"The \"Hen\"".
func FieldSearch(field, value string) domain.SearchExpr {
	return field + `:"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// Advanced search sort orders.
const (
	SearchSortAlphabetical = "alphabetical"
	SearchSortRelevancy    = "relevancy"
	SearchSortDate         = "date"
	SearchSortScore        = "score"
	SearchSortNumComments  = "num_comments"
)

// Query keys of the advanced search.
const (
	searchTitleKey      = "searchTitle"
	searchSynopsisKey   = "searchSynopsis"
	searchStoryTextKey  = "searchStoryText"
	searchTagsKey       = "searchTags"
	searchDateRangeKey  = "searchDateRange"
	searchCategoriesKey = "searchCategories"
	searchSortKey       = "sort"
	searchAuthorNameKey = "searchAuthorName"
)

// StorySearch is the advanced story search. Empty fields are not sent.
type StorySearch struct {
	Title      string
	Synopsis   string
	StoryText  string
	Tags       string
	DateRange  string // older_than:<range> or earlier_than:<range>
	Categories []domain.CategoryName
	Sort       string
	AuthorName string
}

// DateRangeFilter renders a range such as "1w" or "3M" into the backend's
// filter syntax. An empty range or "any" means no filter.
func DateRangeFilter(rng string, newer bool) string {
	if rng == "" || rng == "any" {
		return ""
	}
	if newer {
		return "earlier_than:" + rng
	}
	return "older_than:" + rng
}

// IsZero reports whether no search field is set.
func (s StorySearch) IsZero() bool {
	return s.Title == "" && s.Synopsis == "" && s.StoryText == "" && s.Tags == "" &&
		s.DateRange == "" && len(s.Categories) == 0 && s.Sort == "" && s.AuthorName == ""
}

// Params encodes the search as multi-entry query params in a fixed key order.
func (s StorySearch) Params() MultiEntryQueryParams {
	var params MultiEntryQueryParams
	add := func(key, value string) {
		if value != "" {
			params = append(params, MultiEntryQueryParam{Key: key, Values: []string{value}})
		}
	}
	add(searchTitleKey, s.Title)
	add(searchSynopsisKey, s.Synopsis)
	add(searchStoryTextKey, s.StoryText)
	add(searchTagsKey, s.Tags)
	add(searchDateRangeKey, s.DateRange)
	if len(s.Categories) > 0 {
		params = append(params, MultiEntryQueryParam{Key: searchCategoriesKey, Values: s.Categories})
	}
	add(searchSortKey, s.Sort)
	add(searchAuthorNameKey, s.AuthorName)
	return params
}

// StorySearchFromQuery reads a search back from the query string built by Params.
func StorySearchFromQuery(q url.Values) StorySearch {
	return StorySearch{
		Title:      q.Get(searchTitleKey),
		Synopsis:   q.Get(searchSynopsisKey),
		StoryText:  q.Get(searchStoryTextKey),
		Tags:       q.Get(searchTagsKey),
		DateRange:  q.Get(searchDateRangeKey),
		Categories: q[searchCategoriesKey],
		Sort:       q.Get(searchSortKey),
		AuthorName: q.Get(searchAuthorNameKey),
	}
}

// SearchStories runs an advanced search. Paging comes from opts; a sort in
// opts is overridden by the search's own sort order when one is set.
func (c *APIClient) SearchStories(ctx context.Context, sess Session, search StorySearch, opts QueryOptions) (Page[domain.Story], error) {
	if search.Sort != "" {
		opts.Sort = Sort{}
	}
	params := append(ToParams(opts, "stories").Multi(), search.Params()...)
	path := storyPrefix + GenerateMultiEntryQueryString(params)
	return fetchPage[domain.Story](ctx, c, "SearchStories", sess, path, ToHeaders(nil, sess.session(), CommonOptions{}))
}
