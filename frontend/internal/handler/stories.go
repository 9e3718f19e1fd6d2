package handler

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

// Cache key prefixes. Story list reads start with cacheStories so a single
// Invalidate clears every listing after a mutation.
const (
	cacheStories    = "stories"
	cacheStory      = "story"
	cacheChapters   = "chapters"
	cacheCategories = "categories"
	cacheUser       = "user"
)

const authorNameField = "authorName"

var (
	searchRanges = []frontend_domain.Option{
		{Value: "any", Label: "Any time"},
		{Value: "1d", Label: "1 day"},
		{Value: "1w", Label: "1 week"},
		{Value: "1M", Label: "1 month"},
		{Value: "3M", Label: "3 months"},
		{Value: "6M", Label: "6 months"},
		{Value: "1y", Label: "1 year"},
	}
	searchSorts = []frontend_domain.Option{
		{Value: apiclient.SearchSortRelevancy, Label: "Relevance"},
		{Value: apiclient.SearchSortAlphabetical, Label: "Title"},
		{Value: apiclient.SearchSortDate, Label: "Newest"},
		{Value: apiclient.SearchSortScore, Label: "Score"},
		{Value: apiclient.SearchSortNumComments, Label: "Most discussed"},
	}
)

func validOption(options []frontend_domain.Option, value string) bool {
	return slices.ContainsFunc(options, func(o frontend_domain.Option) bool { return o.Value == value })
}

var titleAscending = apiclient.SortBy(apiclient.SortEntry{Field: domain.SortStoryTitle, Direction: apiclient.ASC})

// StoriesGetHandler lists stories by title, optionally filtered by a title search.
func (h *Handler) StoriesGetHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := parseLimitOffset(q, h.listLimit())
	search := strings.TrimSpace(q.Get("search"))

	opts := apiclient.Paged(limit, offset).WithSort(titleAscending)
	if search != "" {
		opts = opts.WithSearch(apiclient.FieldSearch(domain.SortStoryTitle, search))
	}

	sess := session(r)
	key := querycache.Key(cacheStories, sess.SessionID, strconv.Itoa(limit), strconv.Itoa(offset), search)
	page, err := cached(r.Context(), h, key, func(ctx context.Context) (apiclient.Page[apiclient.StoryWithUser], error) {
		return h.APIClient.GetStoriesWithUsers(ctx, sess, opts)
	})
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "stories.html", frontend_domain.StoriesPageData{
		Stories:    page.Items,
		Total:      page.Count,
		Search:     search,
		Pagination: frontend_domain.BuildPagination(page.Count, limit, offset, pageHref(r, limit)),
		Heading:    "Stories",
	})
}

// MyStoriesGetHandler lists the stories written by the logged-in user.
func (h *Handler) MyStoriesGetHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r.URL.Query(), h.listLimit())
	sess := session(r)

	user, err := h.currentUser(r.Context(), sess)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	opts := apiclient.Paged(limit, offset).
		WithSort(titleAscending).
		WithSearch(apiclient.FieldSearch(authorNameField, user.Username))
	key := querycache.Key(cacheStories, sess.SessionID, "my", strconv.Itoa(limit), strconv.Itoa(offset))
	page, err := cached(r.Context(), h, key, func(ctx context.Context) (apiclient.Page[apiclient.StoryWithUser], error) {
		return h.APIClient.GetStoriesWithUsers(ctx, sess, opts)
	})
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "stories.html", frontend_domain.StoriesPageData{
		Stories:    page.Items,
		Total:      page.Count,
		Pagination: frontend_domain.BuildPagination(page.Count, limit, offset, pageHref(r, limit)),
		Heading:    "My stories",
	})
}

// SearchGetHandler shows the advanced search form and, when the query
// string carries a search, its results.
func (h *Handler) SearchGetHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := apiclient.StorySearchFromQuery(q)
	limit, offset := parseLimitOffset(q, h.listLimit())
	sess := session(r)

	data := frontend_domain.SearchPageData{
		Form:     searchFormFrom(search),
		Ranges:   searchRanges,
		Sorts:    searchSorts,
		Searched: !search.IsZero(),
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		categories, err := h.categories(ctx, sess)
		data.Categories = categories
		return err
	})
	if data.Searched {
		g.Go(func() error {
			page, err := h.APIClient.SearchStoriesWithUsers(ctx, sess, search, apiclient.Paged(limit, offset))
			if err != nil {
				return err
			}
			data.Results = page.Items
			data.Total = page.Count
			data.Pagination = frontend_domain.BuildPagination(page.Count, limit, offset, pageHref(r, limit))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "search.html", data)
}

// SearchPostHandler turns the submitted form into a shareable search URL.
func (h *Handler) SearchPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	search := storySearchFromForm(r)
	target := "/stories/search"
	if !search.IsZero() {
		target += apiclient.GenerateMultiEntryQueryString(search.Params())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func storySearchFromForm(r *http.Request) apiclient.StorySearch {
	rng := r.PostFormValue("range")
	if !validOption(searchRanges, rng) {
		rng = ""
	}
	sort := r.PostFormValue("sort")
	if !validOption(searchSorts, sort) {
		sort = ""
	}
	var categories []domain.CategoryName
	for _, c := range r.PostForm["categories"] {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return apiclient.StorySearch{
		Title:      strings.TrimSpace(r.PostFormValue("title")),
		Synopsis:   strings.TrimSpace(r.PostFormValue("synopsis")),
		StoryText:  strings.TrimSpace(r.PostFormValue("storyText")),
		Tags:       strings.TrimSpace(r.PostFormValue("tags")),
		DateRange:  apiclient.DateRangeFilter(rng, r.PostFormValue("newer") == "on"),
		Categories: categories,
		Sort:       sort,
		AuthorName: strings.TrimSpace(r.PostFormValue("authorName")),
	}
}

func searchFormFrom(s apiclient.StorySearch) frontend_domain.SearchForm {
	form := frontend_domain.SearchForm{
		Title:      s.Title,
		Synopsis:   s.Synopsis,
		StoryText:  s.StoryText,
		Tags:       s.Tags,
		Range:      "any",
		Categories: s.Categories,
		Sort:       s.Sort,
		AuthorName: s.AuthorName,
	}
	if rng, ok := strings.CutPrefix(s.DateRange, "earlier_than:"); ok {
		form.Range, form.Newer = rng, true
	} else if rng, ok := strings.CutPrefix(s.DateRange, "older_than:"); ok {
		form.Range = rng
	}
	return form
}

func (h *Handler) categories(ctx context.Context, sess apiclient.Session) ([]domain.Category, error) {
	return cached(ctx, h, querycache.Key(cacheCategories), func(ctx context.Context) ([]domain.Category, error) {
		return h.APIClient.AllCategories(ctx, sess)
	})
}

func (h *Handler) currentUser(ctx context.Context, sess apiclient.Session) (domain.UserDetails, error) {
	return cached(ctx, h, querycache.Key(cacheUser, sess.SessionID), func(ctx context.Context) (domain.UserDetails, error) {
		return h.APIClient.GetUserDetails(ctx, sess)
	})
}
