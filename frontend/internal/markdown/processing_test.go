package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tp := New()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "emphasis",
			input:    "The *hen* laid an **egg**",
			contains: []string{"<em>hen</em>", "<strong>egg</strong>"},
		},
		{
			name:        "script is stripped",
			input:       "hello <script>alert(1)</script>",
			contains:    []string{"hello"},
			notContains: []string{"<script", "alert(1)"},
		},
		{
			name:        "event handlers are stripped",
			input:       `<img src="x.png" onerror="alert(1)">`,
			notContains: []string{"onerror"},
		},
		{
			name:     "heading ids",
			input:    "# Chapter One",
			contains: []string{`<h1 id="chapter-one">`},
		},
		{
			name:     "links get nofollow",
			input:    "[farm](https://example.com)",
			contains: []string{`rel="nofollow noopener"`, `target="_blank"`},
		},
		{
			name:     "strikethrough",
			input:    "~~fox~~",
			contains: []string{"<del>fox</del>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tp.Render(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, string(out), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, string(out), s)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	tp := New()

	assert.Equal(t, "The hen", tp.Excerpt("The **hen**", 20))
	assert.Equal(t, "abcde…", tp.Excerpt("abcdefghij", 5))
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadingMinutes(""))
	assert.Equal(t, 1, ReadingMinutes("a few words"))
	assert.Equal(t, 3, ReadingMinutes(strings.Repeat("word ", 2*wordsPerMinute+1)))
}
