package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestToParams(t *testing.T) {
	tests := []struct {
		name       string
		opts       QueryOptions
		descriptor string
		want       QueryParams
	}{
		{
			name: "empty",
			opts: QueryOptions{},
			want: nil,
		},
		{
			name:       "descriptor only",
			descriptor: "stories",
			want:       QueryParams{{"_", "stories"}},
		},
		{
			name: "limit and offset",
			opts: QueryOptions{Limit: intPtr(10), Offset: intPtr(0)},
			want: QueryParams{{"limit", "10"}, {"offset", "0"}},
		},
		{
			name: "raw sort and search",
			opts: QueryOptions{Search: strPtr(`title:"x"`), Sort: RawSort("title:ASC")},
			want: QueryParams{{"search", `title:"x"`}, {"sort", "title:ASC"}},
		},
		{
			name: "sort pairs keep input order",
			opts: QueryOptions{Sort: SortBy(SortEntry{"title", ASC}, SortEntry{"createdAt", DESC})},
			want: QueryParams{{"sort", "title:ASC,createdAt:DESC"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToParams(tt.opts, tt.descriptor))
		})
	}
}

func TestGenerateQueryString(t *testing.T) {
	assert.Equal(t, "", GenerateQueryString(nil))
	assert.Equal(t, "?a=1&b=2%20x", GenerateQueryString(QueryParams{{"a", "1"}, {"b", "2 x"}}))
	assert.Equal(t, "?search=title%3A%22a%26b%22", GenerateQueryString(QueryParams{{"search", `title:"a&b"`}}))
	assert.Equal(t, "?q=1%2B1", GenerateQueryString(QueryParams{{"q", "1+1"}}))
}

func TestGenerateMultiEntryQueryString(t *testing.T) {
	assert.Equal(t, "", GenerateMultiEntryQueryString(nil))
	assert.Equal(t, "", GenerateMultiEntryQueryString(MultiEntryQueryParams{{"ids", nil}}))
	assert.Equal(t, "?ids=a&ids=b", GenerateMultiEntryQueryString(MultiEntryQueryParams{{"ids", []string{"a", "b"}}}))
	assert.Equal(t, "?_=stories&c=x%20y&c=z",
		GenerateMultiEntryQueryString(append(QueryParams{{"_", "stories"}}.Multi(), MultiEntryQueryParam{"c", []string{"x y", "z"}})))
}

func TestQueryParams_Set(t *testing.T) {
	var p QueryParams
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	assert.Equal(t, QueryParams{{"a", "3"}, {"b", "2"}}, p)
	v, ok := p.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}
