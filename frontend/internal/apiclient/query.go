package apiclient

import (
	"net/url"
	"strconv"
	"strings"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

type SortEntry struct {
	Field     string
	Direction Direction
}

// Sort is either a raw sort expression passed through verbatim or an ordered
// list of field/direction pairs.
type Sort struct {
	raw     string
	entries []SortEntry
}

// RawSort passes a preformatted sort expression through unchanged.
func RawSort(expr string) Sort {
	return Sort{raw: expr}
}

// SortBy sorts by the given entries in order.
func SortBy(entries ...SortEntry) Sort {
	return Sort{entries: entries}
}

func (s Sort) IsZero() bool {
	return s.raw == "" && len(s.entries) == 0
}

// String renders the sort as the backend expects it: field:DIR pairs joined
// by commas, in the order given.
func (s Sort) String() string {
	if s.raw != "" {
		return s.raw
	}
	parts := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		parts = append(parts, e.Field+":"+string(e.Direction))
	}
	return strings.Join(parts, ",")
}

type QueryOptions struct {
	Limit  *int
	Offset *int
	Search *string
	Sort   Sort
}

// Paged returns options selecting one page.
func Paged(limit, offset int) QueryOptions {
	return QueryOptions{Limit: &limit, Offset: &offset}
}

// WithSearch returns a copy of o with a search expression.
func (o QueryOptions) WithSearch(search string) QueryOptions {
	o.Search = &search
	return o
}

// WithSort returns a copy of o with sort.
func (o QueryOptions) WithSort(sort Sort) QueryOptions {
	o.Sort = sort
	return o
}

type QueryParam struct {
	Key   string
	Value string
}

// QueryParams keeps insertion order so encoded query strings are stable.
type QueryParams []QueryParam

// Get returns the value of the first param named key.
func (p QueryParams) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Set replaces an existing key in place or appends a new one.
func (p *QueryParams) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, QueryParam{Key: key, Value: value})
}

type MultiEntryQueryParam struct {
	Key    string
	Values []string
}

type MultiEntryQueryParams []MultiEntryQueryParam

// Multi lifts single-valued params into the multi-entry form.
func (p QueryParams) Multi() MultiEntryQueryParams {
	out := make(MultiEntryQueryParams, 0, len(p))
	for _, param := range p {
		out = append(out, MultiEntryQueryParam{Key: param.Key, Values: []string{param.Value}})
	}
	return out
}

// ToParams converts options into query params. Unset options are omitted and
// a non-empty descriptor is sent as "_".
func ToParams(opts QueryOptions, descriptor string) QueryParams {
	var params QueryParams
	if descriptor != "" {
		params.Set("_", descriptor)
	}
	if opts.Limit != nil {
		params.Set("limit", strconv.Itoa(*opts.Limit))
	}
	if opts.Offset != nil {
		params.Set("offset", strconv.Itoa(*opts.Offset))
	}
	if opts.Search != nil {
		params.Set("search", *opts.Search)
	}
	if !opts.Sort.IsZero() {
		params.Set("sort", opts.Sort.String())
	}
	return params
}

// GenerateQueryString returns "" for no params, otherwise "?k=v&..." with
// every key and value percent-encoded.
func GenerateQueryString(params QueryParams) string {
	if len(params) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, param := range params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(encodeComponent(param.Key))
		sb.WriteByte('=')
		sb.WriteString(encodeComponent(param.Value))
	}
	return sb.String()
}

// GenerateMultiEntryQueryString repeats a key once per value.
func GenerateMultiEntryQueryString(params MultiEntryQueryParams) string {
	var sb strings.Builder
	for _, param := range params {
		key := encodeComponent(param.Key)
		for _, value := range param.Values {
			if sb.Len() == 0 {
				sb.WriteByte('?')
			} else {
				sb.WriteByte('&')
			}
			sb.WriteString(key)
			sb.WriteByte('=')
			sb.WriteString(encodeComponent(value))
		}
	}
	return sb.String()
}

// encodeComponent escapes s for use as a query key or value. Spaces become
// %20 rather than "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
