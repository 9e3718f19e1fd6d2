package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	frontend_domain "github.com/henhouse-dev/henhouse/frontend/internal/domain"
	"github.com/henhouse-dev/henhouse/frontend/internal/markdown"
	mw "github.com/henhouse-dev/henhouse/frontend/internal/middleware"
	"github.com/henhouse-dev/henhouse/frontend/internal/querycache"
	"github.com/henhouse-dev/henhouse/shared/api"
	"github.com/henhouse-dev/henhouse/shared/domain"
	"github.com/henhouse-dev/henhouse/shared/validation"
)

func chapterURL(storyID domain.StoryId, number int) string {
	return "/stories/" + storyID + "/" + strconv.Itoa(number)
}

// ChapterGetHandler renders one chapter of a story. Chapters are addressed
// by their 0-based position in the story.
func (h *Handler) ChapterGetHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}
	number, ok := chapterNumParam(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	sess := session(r)
	view, err := h.loadStory(r.Context(), sess, storyID)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	if number >= len(view.chapters) {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	chapterID := view.chapters[number].UUID
	chapter, err := cached(r.Context(), h, querycache.Key(cacheChapters, sess.SessionID, storyID, chapterID), func(ctx context.Context) (domain.ChapterDetails, error) {
		return h.APIClient.GetChapter(ctx, sess, chapterID)
	})
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	body, err := h.TextProcessor.Render(chapter.Markdown)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	data := frontend_domain.ChapterPageData{
		Story:   view.story,
		Chapter: chapter,
		Number:  number,
		Total:   len(view.chapters),
		Body:    body,
		Minutes: markdown.ReadingMinutes(chapter.Markdown),
		IsOwner: view.isOwner,
	}
	if number > 0 {
		data.Previous = &view.chapters[number-1]
	}
	if number+1 < len(view.chapters) {
		data.Next = &view.chapters[number+1]
	}
	h.renderTemplate(w, r, "chapter.html", data)
}

func (h *Handler) ChapterCreateGetHandler(w http.ResponseWriter, r *http.Request) {
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
	h.renderTemplate(w, r, "chapter_create.html", frontend_domain.ChapterForm{
		StoryID:   storyID,
		StoryName: view.story.Title,
		Number:    len(view.chapters),
	})
}

func (h *Handler) ChapterCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}

	form := chapterFormFromRequest(r)
	form.StoryID = storyID
	form.StoryName = r.PostFormValue("storyName")
	req := api.CreateChapterRequest{
		Name:     form.Name,
		Synopsis: form.Synopsis,
		Markdown: form.Markdown,
	}
	if err := validation.Struct(&req); err != nil {
		form.Errors = validation.FieldErrors(err)
		h.renderTemplate(w, r, "chapter_create.html", form)
		return
	}

	sess := session(r)
	chapter, err := h.APIClient.CreateChapter(r.Context(), sess, storyID, req)
	if err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.renderTemplateWithError(w, r, "chapter_create.html", form, msg)
		}
		return
	}
	h.invalidate(cacheChapters)

	if form.Published {
		publish := api.UpdateChapterRequest{PublishedAt: domain.Some(time.Now().UTC())}
		if _, err := h.APIClient.UpdateChapter(r.Context(), sess, chapter.UUID, publish); err != nil {
			if msg, ok := h.formError(w, r, err); ok {
				h.redirectWithFlash(w, r, "/stories/"+storyID, mw.FlashCookieError, "Chapter created but could not be published: "+msg)
			}
			return
		}
	}

	h.redirectWithFlash(w, r, "/stories/"+storyID, mw.FlashCookieSuccess, "Chapter added")
}

func (h *Handler) ChapterEditGetHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}
	number, ok := chapterNumParam(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	sess := session(r)
	view, err := h.loadStory(r.Context(), sess, storyID)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	if number >= len(view.chapters) {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	chapter, err := h.APIClient.GetChapter(r.Context(), sess, view.chapters[number].UUID)
	if err != nil {
		h.handleAPIError(w, r, err)
		return
	}

	h.renderTemplate(w, r, "chapter_edit.html", frontend_domain.ChapterForm{
		StoryID:   storyID,
		StoryName: view.story.Title,
		ChapterID: chapter.UUID,
		Number:    number,
		Name:      chapter.Name,
		Synopsis:  chapter.Synopsis,
		Markdown:  chapter.Markdown,
		Published: chapter.PublishedAt != nil,
	})
}

func (h *Handler) ChapterEditPostHandler(w http.ResponseWriter, r *http.Request) {
	storyID, ok := uuidParam(r, "storyId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Story not found")
		return
	}
	number, ok := chapterNumParam(r)
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	form := chapterFormFromRequest(r)
	form.StoryID = storyID
	form.StoryName = r.PostFormValue("storyName")
	form.Number = number
	chapterID, err := uuid.Parse(r.PostFormValue("chapterId"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid chapter")
		return
	}
	form.ChapterID = chapterID.String()

	check := api.CreateChapterRequest{Name: form.Name, Markdown: form.Markdown}
	if err := validation.Struct(&check); err != nil {
		form.Errors = validation.FieldErrors(err)
		h.renderTemplate(w, r, "chapter_edit.html", form)
		return
	}

	req := api.UpdateChapterRequest{
		Name:     domain.Some(form.Name),
		Synopsis: domain.Some(form.Synopsis),
		Markdown: domain.Some(form.Markdown),
	}
	wasPublished := r.PostFormValue("wasPublished") == "true"
	switch {
	case form.Published && !wasPublished:
		req.PublishedAt = domain.Some(time.Now().UTC())
	case !form.Published && wasPublished:
		req.PublishedAt = domain.Null[time.Time]()
	}

	if _, err := h.APIClient.UpdateChapter(r.Context(), session(r), form.ChapterID, req); err != nil {
		if msg, ok := h.formError(w, r, err); ok {
			h.renderTemplateWithError(w, r, "chapter_edit.html", form, msg)
		}
		return
	}
	h.invalidate(cacheChapters)

	h.redirectWithFlash(w, r, chapterURL(storyID, number), mw.FlashCookieSuccess, "Chapter saved")
}

func (h *Handler) ChapterDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := uuidParam(r, "chapterId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "Chapter not found")
		return
	}

	if err := h.APIClient.DeleteChapter(r.Context(), session(r), chapterID); err != nil {
		h.handleAPIError(w, r, err)
		return
	}
	h.invalidate(cacheChapters)

	target := "/stories/my"
	if storyID, err := uuid.Parse(r.PostFormValue("storyId")); err == nil {
		target = "/stories/" + storyID.String()
	}
	h.redirectWithFlash(w, r, target, mw.FlashCookieSuccess, "Chapter deleted")
}

func chapterFormFromRequest(r *http.Request) frontend_domain.ChapterForm {
	return frontend_domain.ChapterForm{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Synopsis:  strings.TrimSpace(r.PostFormValue("synopsis")),
		Markdown:  r.PostFormValue("markdown"),
		Published: r.PostFormValue("published") == "on",
	}
}
