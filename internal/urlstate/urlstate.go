// file: internal/urlstate/urlstate.go
// version: 1.3.0
// guid: 5114fd1c-cc1b-4ad1-b678-5086b0d47431

// Package urlstate treats the request URL query string as the
// authoritative store for linkable filter and paging state. Reads pull
// from the current query; mutations produce the next URL. Nothing in
// this package holds state between requests.
package urlstate

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the catalog page size when the URL does not carry one.
const DefaultPerPage = 12

// ReadParam returns the query value for name, or def when absent.
func ReadParam(query url.Values, name, def string) string {
	if v := query.Get(name); v != "" {
		return v
	}
	return def
}

// ReadParams returns the full query as a flat mapping, first value wins.
func ReadParams(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for k, vs := range query {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// WriteParams merges patch into query and returns the next query. For
// each pair, an empty value deletes the key; anything else sets it.
// The input query is not mutated; callers batch related mutations into
// one patch so they land together.
func WriteParams(query url.Values, patch map[string]string) url.Values {
	next := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			next.Add(k, v)
		}
	}
	for k, v := range patch {
		if v == "" {
			next.Del(k)
			continue
		}
		next.Set(k, v)
	}
	return next
}

// URL renders path plus the encoded query, preserving the pathname the
// way a navigation would.
func URL(path string, query url.Values) string {
	encoded := query.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// Filters is the catalog filter state owned by the URL. Zero-valued
// string fields are absent from the URL, never present as empty
// parameters.
type Filters struct {
	Page        int
	PerPage     int
	Category    string
	Subcategory string
	CategoryID  string
	AuthorID    string
	Search      string
}

// ParseFilters reads the filter state from a query string. The legacy q
// parameter is accepted for search when search is absent. Page and
// per_page are clamped to at least 1.
func ParseFilters(query url.Values) Filters {
	f := Filters{
		Page:        atoiAtLeast(query.Get("page"), 1),
		PerPage:     atoiAtLeast(query.Get("per_page"), DefaultPerPage),
		Category:    query.Get("category"),
		Subcategory: query.Get("subcategory"),
		CategoryID:  query.Get("category_id"),
		AuthorID:    query.Get("author_id"),
		Search:      query.Get("search"),
	}
	if f.Search == "" {
		f.Search = query.Get("q")
	}
	return f
}

func atoiAtLeast(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Encode reflects the filter state back into a query string with
// absent-value fields elided. PerPage is written only when it differs
// from the default, matching what a fresh navigation would carry.
func (f Filters) Encode() url.Values {
	q := url.Values{}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage >= 1 && f.PerPage != DefaultPerPage {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("category", f.Category)
	set("subcategory", f.Subcategory)
	set("category_id", f.CategoryID)
	set("author_id", f.AuthorID)
	set("search", f.Search)
	return q
}

// WireParams renders the filter state as upstream request parameters.
// Unlike Encode, page and per_page are always explicit.
func (f Filters) WireParams() url.Values {
	q := f.Encode()
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("per_page", strconv.Itoa(f.PerPage))
	return q
}

// ActiveCount reports how many committed filters are set, paging aside.
func (f Filters) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Search, f.Category, f.Subcategory, f.CategoryID, f.AuthorID} {
		if v != "" {
			n++
		}
	}
	return n
}

// Every non-page mutation resets the page to 1 within the same patch.

// WithPage returns the state at page p.
func (f Filters) WithPage(p int) Filters {
	if p < 1 {
		p = 1
	}
	f.Page = p
	return f
}

// WithSearch commits a search term.
func (f Filters) WithSearch(s string) Filters {
	f.Search = s
	f.Page = 1
	return f
}

// WithCategory selects a category by slug or name, clearing the
// numeric id and subcategory selections.
func (f Filters) WithCategory(value string) Filters {
	f.Category = value
	f.CategoryID = ""
	f.Subcategory = ""
	f.Page = 1
	return f
}

// WithSubcategory selects a subcategory by slug or name.
func (f Filters) WithSubcategory(value string) Filters {
	f.Subcategory = value
	f.Page = 1
	return f
}

// WithAuthorID selects an author.
func (f Filters) WithAuthorID(id string) Filters {
	f.AuthorID = id
	f.Page = 1
	return f
}

// ClearCategory drops every category-shaped selection.
func (f Filters) ClearCategory() Filters {
	f.Category = ""
	f.CategoryID = ""
	f.Subcategory = ""
	f.Page = 1
	return f
}

// ClearAll drops every committed filter.
func (f Filters) ClearAll() Filters {
	return Filters{Page: 1, PerPage: f.PerPage}
}
