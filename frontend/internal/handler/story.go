package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/henhouse-dev/henhouse/frontend/internal/apiclient"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/validation"
)

// storyView is everything the story and chapter pages share.
type storyView struct {
	story    apiclient.StoryWithUser
	chapters []frontend_domain.ChapterLink
	isOwner  bool
}

// loadStory fetches a story, its creator, its chapters and, for logged-in
// visitors, who is looking, all concurrently.
func (h *Handler) loadStory(ctx context.Context, sess apiclient.Session, storyID domain.StoryId) (storyView, error) {
	var (
		view     storyView
		chapters []domain.Chapter
		viewer   domain.UserDetails
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.story, err = cached(gctx, h, querycache.Key(cacheStory, sess.SessionID, storyID), func(ctx context.Context) (apiclient.StoryWithUser, error) {
			return h.APIClient.GetStoryWithUser(ctx, sess, storyID)
		})
		return err
	})
	g.Go(func() error {
		var err error
		chapters, err = cached(gctx, h, querycache.Key(cacheChapters, sess.SessionID, storyID), func(ctx context.Context) ([]domain.Chapter, error) {
			return h.APIClient.AllChapters(ctx, sess, storyID)
		})
		return err
	})
	if sess.SessionID != "" {
		g.Go(func() error {
			var err error
			viewer, err = h.currentUser(gctx, sess)
			if err != nil {
				// the story is public, ownership only adds edit links
				logger.Log.Debug("viewer lookup failed", "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storyView{}, err
	}

	view.chapters = make([]frontend_domain.ChapterLink, len(chapters))
	for i, c := range chapters {
		view.chapters[i] = frontend_domain.ChapterLink{Chapter: c, Number: i}
	}
	view.isOwner = viewer.UUID != "" && viewer.UUID == view.story.UserUUID
	return view, nil
}

func (h *Handler) StoryGetHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}

	view, err := h.loadStory(r.Context(), session(r), storyID)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "story.html", frontend_domain.StoryPageData{
		Story:    view.story,
		Chapters: view.chapters,
		IsOwner:  view.isOwner,
	})
}

func (h *Handler) StoryCreateGetHandler(w http.ResponseWriter, r *http.Request) {
	form := frontend_domain.StoryForm{}
	h.renderStoryForm(w, r, "story_create.html", form, "")
}

func (h *Handler) StoryCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	form := storyFormFromRequest(r)
	req := api.CreateStoryRequest{
		Title:    form.Title,
		Synopsis: form.Synopsis,
		Category: form.Category,
		Tags:     splitAndTrim(form.Tags),
	}
	if err := validation.Struct(&req); err != nil {
		form.Errors = validation.FieldErrors(err)
		h.renderStoryForm(w, r, "story_create.html", form, "")
		return
	}

	sess := session(r)
	story, err := h.APIClient.CreateStory(r.Context(), sess, req)
	if err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.renderStoryForm(w, r, "story_create.html", form, msg)
		}
		return
	}
	h.invalidate(cacheStories)

	if form.Published {
		publish := api.UpdateStoryRequest{PublishedAt: domain.Some(time.Now().UTC())}
		if _, err := h.APIClient.UpdateStory(r.Context(), sess, story.UUID, publish); err != nil {
			logger.Log.Error("publishing new story", "story", story.UUID, "error", err)
			h.redirectWithFlash(w, r, "/stories/"+story.UUID+"/edit", mw.FlashCookieError, "Story created but could not be published")
			return
		}
	}

	h.redirectWithFlash(w, r, "/stories/"+story.UUID, mw.FlashCookieSuccess, "Story created")
}

func (h *Handler) StoryEditGetHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}

	story, err := h.APIClient.GetStory(r.Context(), session(r), storyID)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	form := frontend_domain.StoryForm{
		StoryID:   story.UUID,
		Title:     story.Title,
		Synopsis:  story.Synopsis,
		Category:  story.Category,
		Tags:      strings.Join(story.Tags, ", "),
		Published: story.Published(),
	}
	h.renderStoryForm(w, r, "story_edit.html", form, "")
}

func (h *Handler) StoryEditPostHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}

	form := storyFormFromRequest(r)
	form.StoryID = storyID
	check := api.CreateStoryRequest{Title: form.Title, Category: form.Category}
	if err := validation.Struct(&check); err != nil {
		form.Errors = validation.FieldErrors(err)
		h.renderStoryForm(w, r, "story_edit.html", form, "")
		return
	}

	req := api.UpdateStoryRequest{
		Title:    domain.Some(form.Title),
		Synopsis: domain.Some(form.Synopsis),
		Category: domain.Some(form.Category),
		Tags:     domain.Some(splitAndTrim(form.Tags)),
	}
	wasPublished := r.PostFormValue("wasPublished") == "true"
	switch {
	case form.Published && !wasPublished:
		req.PublishedAt = domain.Some(time.Now().UTC())
	case !form.Published && wasPublished:
		req.PublishedAt = domain.Null[time.Time]()
	}

	if _, err := h.APIClient.UpdateStory(r.Context(), session(r), storyID, req); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.renderStoryForm(w, r, "story_edit.html", form, msg)
		}
		return
	}
	h.invalidate(cacheStories, cacheStory)

	h.redirectWithFlash(w, r, "/stories/"+storyID, mw.FlashCookieSuccess, "Story saved")
}

func (h *Handler) StoryDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}

	if err := h.APIClient.DeleteStory(r.Context(), session(r), storyID); err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	h.invalidate(cacheStories, cacheStory, cacheChapters)

	h.redirectWithFlash(w, r, "/stories/my", mw.FlashCookieSuccess, "Story deleted")
}

// renderStoryForm adds the category choices and renders a story form.
func (h *Handler) renderStoryForm(w http.ResponseWriter, r *http.Request, name string, form frontend_domain.StoryForm, errMsg string) {
	categories, err := h.categories(r.Context(), session(r))
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	form.Categories = categories
	h.renderTemplateWithError(w, r, name, form, errMsg)
}

func storyFormFromRequest(r *http.Request) frontend_domain.StoryForm {
	return frontend_domain.StoryForm{
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Synopsis:  strings.TrimSpace(r.PostFormValue("synopsis")),
		Category:  strings.TrimSpace(r.PostFormValue("category")),
		Tags:      r.PostFormValue("tags"),
		Published: r.PostFormValue("published") == "on",
	}
}
