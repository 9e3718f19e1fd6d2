package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
)

const storyPrefix = "/api/art/story"

func storyPath(id domain.StoryId) string {
	return storyPrefix + "/" + url.PathEscape(id)
}

// GetStory fetches one story with its category and tags.
func (c *APIClient) GetStory(ctx context.Context, sess Session, id domain.StoryId) (domain.StoryDetails, error) {
	return fetchJSON[domain.StoryDetails](ctx, c, "GetStory", sess, http.MethodGet, storyPath(id), ToHeaders(nil, sess.session(), CommonOptions{}), nil)
}

// GetStories fetches one page of stories matching opts.
func (c *APIClient) GetStories(ctx context.Context, sess Session, opts QueryOptions) (Page[domain.Story], error) {
	path := storyPrefix + GenerateQueryString(ToParams(opts, "stories"))
	return fetchPage[domain.Story](ctx, c, "GetStories", sess, path, ToHeaders(nil, sess.session(), CommonOptions{}))
}

// CreateStory creates an unpublished story owned by the session user.
func (c *APIClient) CreateStory(ctx context.Context, sess Session, body api.CreateStoryRequest) (domain.Story, error) {
	const op = "CreateStory"
	if err := requireCSRF(sess); err != nil {
		return domain.Story{}, c.fail(ctx, op, sess, err)
	}
	return fetchJSON[domain.Story](ctx, c, op, sess, http.MethodPost, storyPrefix, ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
}

// UpdateStory patches a story. Only the fields set in body are sent.
func (c *APIClient) UpdateStory(ctx context.Context, sess Session, id domain.StoryId, body api.UpdateStoryRequest) (domain.Story, error) {
	const op = "UpdateStory"
	if err := requireCSRF(sess); err != nil {
		return domain.Story{}, c.fail(ctx, op, sess, err)
	}
	return fetchJSON[domain.Story](ctx, c, op, sess, http.MethodPatch, storyPath(id), ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), body)
}

// DeleteStory deletes a story and its chapters.
func (c *APIClient) DeleteStory(ctx context.Context, sess Session, id domain.StoryId) error {
	const op = "DeleteStory"
	if err := requireCSRF(sess); err != nil {
		return c.fail(ctx, op, sess, err)
	}
	_, err := fetchEmpty(ctx, c, op, sess, http.MethodDelete, storyPath(id), ToHeaders(sess.csrf(), sess.session(), CommonOptions{}), nil)
	return err
}
