package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

const chapterPrefix = "/api/art/chapter"

func chapterPath(id domain.ChapterId) string {
	return chapterPrefix + "/" + url.PathEscape(id)
}

// GetChapter fetches one chapter including its markdown body.
func (c *APIClient) GetChapter(ctx context.Context, sess Session, id domain.ChapterId) (domain.ChapterDetails, error) {
	return fetchJSON[domain.ChapterDetails](ctx, c, "GetChapter", sess, http.MethodGet, chapterPath(id), ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// GetChapters lists the chapters of one story.
func (c *APIClient) GetChapters(ctx context.Context, sess Session, storyID domain.StoryId, opts QueryOptions) (Page[domain.Chapter], error) {
	path := storyPath(storyID) + "/chapter" + GenerateQueryString(ToParams(opts, "stories"))
	return fetchPage[domain.Chapter](ctx, c, "GetChapters", sess, path, ToHeaders(nil, sess.session(), CommonOptions{}))
}

// AllChapters collects every chapter of a story, sorted by index.
func (c *APIClient) AllChapters(ctx context.Context, sess Session, storyID domain.StoryId) ([]domain.Chapter, error) {
	return AllPages(ctx, func(ctx context.Context, limit, offset int) (Page[domain.Chapter], error) {
		opts := Paged(limit, offset).WithSort(SortBy(SortEntry{Field: domain.SortChapterIndex, Direction: ASC}))
		return c.GetChapters(ctx, sess, storyID, opts)
	}, DefaultPageLimit)
}

// CreateChapter appends a chapter to a story.
func (c *APIClient) CreateChapter(ctx context.Context, sess Session, storyID domain.StoryId, body api.CreateChapterRequest) (domain.Chapter, error) {
	const op = "CreateChapter"
	if err := requireCSRF(sess); err != nil {
		return domain.Chapter{}, c.fail(ctx, op, sess, err)
	}
	return fetchJSON[domain.Chapter](ctx, c, op, sess, http.MethodPost, storyPath(storyID)+"/chapter", ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
}

// UpdateChapter patches a chapter. Only the fields set in body are sent.
func (c *APIClient) UpdateChapter(ctx context.Context, sess Session, id domain.ChapterId, body api.UpdateChapterRequest) (domain.Chapter, error) {
	const op = "UpdateChapter"
	if err := requireCSRF(sess); err != nil {
		return domain.Chapter{}, c.fail(ctx, op, sess, err)
	}
	return fetchJSON[domain.Chapter](ctx, c, op, sess, http.MethodPatch, chapterPath(id), ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
}

// DeleteChapter removes a chapter from its story.
func (c *APIClient) DeleteChapter(ctx context.Context, sess Session, id domain.ChapterId) error {
	const op = "DeleteChapter"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodDelete, chapterPath(id), ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), nil)
	return err
}
