package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// wordsPerMinute is the reading speed behind ReadingMinutes.
const wordsPerMinute = 230

// TextProcessor renders chapter markdown to sanitized HTML.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// raw HTML passes through goldmark and is cleaned by bluemonday afterwards
		goldmark.WithRendererOptions(html.WithUnsafe(), html.WithHardWraps()),
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Table,
			extension.Linkify,
			extension.Footnote,
			extension.Typographer,
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-z0-9-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^footnote[a-z-]*$`)).OnElements("a", "div", "li", "sup")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &TextProcessor{md: md, policy: policy}
}

// Render converts markdown to HTML that is safe to embed in a page.
func (tp *TextProcessor) Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	sanitized := tp.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(strings.TrimSpace(string(sanitized))), nil //nolint:gosec // sanitized above
}

// Excerpt returns the first n characters of the chapter's plain text.
func (tp *TextProcessor) Excerpt(source string, n int) string {
	rendered, err := tp.Render(source)
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(bluemonday.StrictPolicy().Sanitize(string(rendered))), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// ReadingMinutes estimates the reading time of the markdown, at least one minute.
func ReadingMinutes(source string) int {
	words := len(strings.Fields(source))
	return max(1, (words+wordsPerMinute-1)/wordsPerMinute)
}
