package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/henhouse-dev/henhouse/shared/domain"
)

const (
	tagPrefix      = "/api/art/tag"
	categoryPrefix = "/api/art/category"
)

// GetTag fetches a tag by name.
func (c *APIClient) GetTag(ctx context.Context, sess Session, name domain.TagName) (domain.TagDetails, error) {
	return fetchJSON[domain.TagDetails](ctx, c, "GetTag", sess, http.MethodGet, tagPrefix+"/"+url.PathEscape(name), ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// GetTags fetches one page of tags.
func (c *APIClient) GetTags(ctx context.Context, sess Session, opts QueryOptions) (Page[domain.Tag], error) {
	path := tagPrefix + GenerateQueryString(ToParams(opts, ""))
	return fetchPage[domain.Tag](ctx, c, "GetTags", sess, path, ToHeaders(nil, sess.session(), CommonOptions{}))
}

// GetCategory fetches a category by name.
func (c *APIClient) GetCategory(ctx context.Context, sess Session, name domain.CategoryName) (domain.CategoryDetails, error) {
	return fetchJSON[domain.CategoryDetails](ctx, c, "GetCategory", sess, http.MethodGet, categoryPrefix+"/"+url.PathEscape(name), ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// GetCategories fetches one page of categories.
func (c *APIClient) GetCategories(ctx context.Context, sess Session, opts QueryOptions) (Page[domain.Category], error) {
	path := categoryPrefix + GenerateQueryString(ToParams(opts, "category"))
	return fetchPage[domain.Category](ctx, c, "GetCategories", sess, path, ToHeaders(nil, sess.session(), CommonOptions{}))
}

// AllCategories collects every category, sorted by name.
func (c *APIClient) AllCategories(ctx context.Context, sess Session) ([]domain.Category, error) {
	return AllPages(ctx, func(ctx context.Context, limit, offset int) (Page[domain.Category], error) {
		opts := Paged(limit, offset).WithSort(SortBy(SortEntry{Field: "name", Direction: ASC}))
		return c.GetCategories(ctx, sess, opts)
	}, DefaultPageLimit)
}
