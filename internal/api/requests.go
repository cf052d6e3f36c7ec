package api

import (
	"fmt"
	"net/url"
	"sort"
)

// ListRequest is the view-state of a list page: filters, sort, pagination.
// Encode translates it into the query-parameter shape the backend expects.
type ListRequest struct {
	Filters  map[string]string
	SortBy   string
	SortDesc bool
	Page     int
	PerPage  int
}

// Encode renders the request as a query string, leading "?" included, or ""
// when every field is zero. Filter keys encode in sorted order so the same
// view-state always yields the same cache key.
func (r ListRequest) Encode() string {
	values := url.Values{}

	keys := make([]string, 0, len(r.Filters))
	for k := range r.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set("filter["+k+"]", r.Filters[k])
	}

	if r.SortBy != "" {
		dir := "asc"
		if r.SortDesc {
			dir = "desc"
		}
		values.Set("sort", r.SortBy)
		values.Set("dir", dir)
	}
	if r.Page > 0 {
		values.Set("page", fmt.Sprint(r.Page))
	}
	if r.PerPage > 0 {
		values.Set("per_page", fmt.Sprint(r.PerPage))
	}

	encoded := values.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}
