package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/henhouse-dev/henhouse/shared/domain"
)

// ErrUserNotFound means a story's creator was missing from the lookup result.
var ErrUserNotFound = errors.New("story creator not found")

// StoryWithUser is a story joined with its creator's public profile.
// Category and Tags are only filled for a single story.
type StoryWithUser struct {
	UUID        domain.StoryId
	Title       string
	Synopsis    string
	Username    domain.Username
	UserUUID    domain.UserId
	PublishedAt *time.Time
	Category    domain.CategoryName
	Tags        []domain.TagName
}

func joinUser(story domain.Story, user domain.User) StoryWithUser {
	return StoryWithUser{
		UUID:        story.UUID,
		Title:       story.Title,
		Synopsis:    story.Synopsis,
		Username:    user.Username,
		UserUUID:    user.UUID,
		PublishedAt: story.PublishedAt,
	}
}

func (c *APIClient) GetStoryWithUser(ctx context.Context, sess Session, id domain.StoryId) (StoryWithUser, error) {
	story, err := c.GetStory(ctx, sess, id)
	if err != nil {
		return StoryWithUser{}, err
	}
	joined, err := c.withUsers(ctx, sess, []domain.Story{story.Story})
	if err != nil {
		return StoryWithUser{}, err
	}
	out := joined[0]
	out.Category = story.Category
	out.Tags = story.Tags
	return out, nil
}

func (c *APIClient) GetStoriesWithUsers(ctx context.Context, sess Session, opts QueryOptions) (Page[StoryWithUser], error) {
	stories, err := c.GetStories(ctx, sess, opts)
	if err != nil {
		return Page[StoryWithUser]{}, err
	}
	items, err := c.withUsers(ctx, sess, stories.Items)
	if err != nil {
		return Page[StoryWithUser]{}, err
	}
	return Page[StoryWithUser]{Count: stories.Count, Items: items}, nil
}

func (c *APIClient) SearchStoriesWithUsers(ctx context.Context, sess Session, search StorySearch, opts QueryOptions) (Page[StoryWithUser], error) {
	stories, err := c.SearchStories(ctx, sess, search, opts)
	if err != nil {
		return Page[StoryWithUser]{}, err
	}
	items, err := c.withUsers(ctx, sess, stories.Items)
	if err != nil {
		return Page[StoryWithUser]{}, err
	}
	return Page[StoryWithUser]{Count: stories.Count, Items: items}, nil
}

// withUsers resolves all creators with a single lookup. Creator ids are
// deduplicated in first-seen order and no lookup is made for no stories.
func (c *APIClient) withUsers(ctx context.Context, sess Session, stories []domain.Story) ([]StoryWithUser, error) {
	if len(stories) == 0 {
		return []StoryWithUser{}, nil
	}

	seen := make(map[domain.UserId]struct{}, len(stories))
	ids := make([]domain.UserId, 0, len(stories))
	for _, s := range stories {
		if _, ok := seen[s.Creator]; !ok {
			seen[s.Creator] = struct{}{}
			ids = append(ids, s.Creator)
		}
	}

	users, err := c.UserLookup(ctx, sess, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[domain.UserId]domain.User, len(users))
	for _, u := range users {
		byID[u.UUID] = u
	}

	out := make([]StoryWithUser, 0, len(stories))
	for _, s := range stories {
		user, ok := byID[s.Creator]
		if !ok {
			return nil, fmt.Errorf("%w: story %s, creator %s", ErrUserNotFound, s.UUID, s.Creator)
		}
		out = append(out, joinUser(s, user))
	}
	return out, nil
}
