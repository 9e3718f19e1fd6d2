package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Title    Optional[string] `json:"title,omitzero"`
	Synopsis Optional[string] `json:"synopsis,omitzero"`
}

func TestOptional_Marshal(t *testing.T) {
	tests := []struct {
		name string
		in   patch
		want string
	}{
		{"absent", patch{}, `{}`},
		{"null", patch{Synopsis: Null[string]()}, `{"synopsis":null}`},
		{"value", patch{Title: Some("Hens")}, `{"title":"Hens"}`},
		{"empty string is a value", patch{Title: Some("")}, `{"title":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestOptional_Unmarshal(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"synopsis":null,"title":"x"}`), &p))

	title, ok := p.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", title)
	assert.True(t, p.Synopsis.IsNull())
	assert.False(t, p.Synopsis.IsZero())

	var empty patch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.Title.IsZero())
	_, ok = empty.Title.Get()
	assert.False(t, ok)
}
