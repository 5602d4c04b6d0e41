// file: internal/catalog/service.go
// version: 1.4.0
// guid: 14acc6d5-8500-42f6-98ad-24f93fe55440

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/idea-foundation/reading-room/internal/api"
)

// Service exposes the catalog operations against the upstream API.
// All methods propagate the normalized transport error unchanged; there
// are no retries and no fallback fetches.
type Service struct {
	client *api.Client
}

// NewService creates a catalog service over the given transport.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying transport.
func (s *Service) Client() *api.Client {
	return s.client
}

// translateParams applies the wire aliases: search becomes q and
// per_page becomes limit, each only when the canonical name is absent.
// The input is not mutated.
func translateParams(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v == "" {
				continue
			}
			out.Add(k, v)
		}
	}
	if out.Get("q") == "" && out.Get("search") != "" {
		out.Set("q", out.Get("search"))
	}
	out.Del("search")
	if out.Get("limit") == "" && out.Get("per_page") != "" {
		out.Set("limit", out.Get("per_page"))
	}
	out.Del("per_page")
	return out
}

// booksEnvelope is the probe for the three tolerated /books response
// shapes. Which member is an array decides the variant.
type booksEnvelope struct {
	Items      json.RawMessage `json:"items"`
	Data       json.RawMessage `json:"data"`
	Meta       *Meta           `json:"meta"`
	Page       *int            `json:"page"`
	TotalPages *int            `json:"total_pages"`
	Pages      *int            `json:"pages"`
	Total      *int            `json:"total"`
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// normalizeBooks narrows any tolerated envelope to BookPage. Unrecognized
// shapes become an empty page, not an error.
func normalizeBooks(raw json.RawMessage) (BookPage, error) {
	if isJSONArray(raw) {
		var books []Book
		if err := json.Unmarshal(raw, &books); err != nil {
			return BookPage{}, fmt.Errorf("failed to decode book list: %w", err)
		}
		return BookPage{Data: books, Meta: Meta{}}, nil
	}

	var env booksEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BookPage{Data: []Book{}}, nil
	}

	if isJSONArray(env.Items) {
		var books []Book
		if err := json.Unmarshal(env.Items, &books); err != nil {
			return BookPage{}, fmt.Errorf("failed to decode book items: %w", err)
		}
		totalPages := env.TotalPages
		if totalPages == nil {
			totalPages = env.Pages
		}
		return BookPage{Data: books, Meta: Meta{Page: env.Page, TotalPages: totalPages, Total: env.Total}}, nil
	}

	if isJSONArray(env.Data) {
		var books []Book
		if err := json.Unmarshal(env.Data, &books); err != nil {
			return BookPage{}, fmt.Errorf("failed to decode book data: %w", err)
		}
		meta := Meta{}
		if env.Meta != nil {
			meta = *env.Meta
		}
		return BookPage{Data: books, Meta: meta}, nil
	}

	return BookPage{Data: []Book{}}, nil
}

// GetBooks fetches a book listing. Query aliases are translated before
// dispatch and the response envelope is narrowed immediately.
func (s *Service) GetBooks(ctx context.Context, params url.Values) (BookPage, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, "/books", translateParams(params), &raw); err != nil {
		return BookPage{}, err
	}
	return normalizeBooks(raw)
}

// GetBook fetches a single book by id.
func (s *Service) GetBook(ctx context.Context, id string) (*Book, error) {
	var book Book
	if err := s.client.GetJSON(ctx, "/books/"+url.PathEscape(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DownloadBook resolves a book's download into a Descriptor: a JSON body
// carrying a url becomes the URL variant, anything else the inline
// payload variant with the filename taken from Content-Disposition.
func (s *Service) DownloadBook(ctx context.Context, id string) (Descriptor, error) {
	resp, err := s.client.GetRaw(ctx, "/books/"+url.PathEscape(id)+"/download")
	if err != nil {
		return Descriptor{}, err
	}

	if resp.IsJSON() {
		var body struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(resp.Body, &body); err == nil && body.URL != "" {
			return Descriptor{URL: body.URL}, nil
		}
		return Descriptor{}, nil
	}

	return Descriptor{Data: resp.Body, Filename: resp.Filename(), ContentType: resp.ContentType}, nil
}

// categoriesEnvelope probes the tolerated /categories shapes.
type categoriesEnvelope struct {
	Categories    json.RawMessage `json:"categories"`
	Data          json.RawMessage `json:"data"`
	Subcategories []Subcategory   `json:"subcategories"`
}

func extractCategories(raw json.RawMessage) []Category {
	if isJSONArray(raw) {
		var cats []Category
		if err := json.Unmarshal(raw, &cats); err == nil {
			return cats
		}
		return []Category{}
	}
	var env categoriesEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return []Category{}
	}
	for _, member := range []json.RawMessage{env.Categories, env.Data} {
		if isJSONArray(member) {
			var cats []Category
			if err := json.Unmarshal(member, &cats); err == nil {
				return cats
			}
		}
	}
	return []Category{}
}

// GetCategories fetches the flat category list, whichever envelope
// member carries it.
func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, "/categories", nil, &raw); err != nil {
		return nil, err
	}
	return extractCategories(raw), nil
}

// CategorySet is the flat category and subcategory lists before merging.
type CategorySet struct {
	Categories    []Category
	Subcategories []Subcategory
}

// GetCategoriesAll fetches both flat lists with the same envelope
// tolerance as GetCategories.
func (s *Service) GetCategoriesAll(ctx context.Context) (CategorySet, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, "/categories", nil, &raw); err != nil {
		return CategorySet{}, err
	}
	set := CategorySet{Categories: extractCategories(raw)}
	if !isJSONArray(raw) {
		var env categoriesEnvelope
		if err := json.Unmarshal(raw, &env); err == nil {
			set.Subcategories = env.Subcategories
		}
	}
	return set, nil
}

// GetAuthors fetches the author directory as returned.
func (s *Service) GetAuthors(ctx context.Context) ([]Author, error) {
	var authors []Author
	if err := s.client.GetJSON(ctx, "/authors", nil, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// GetSettings fetches the free-form settings bag and projects the known
// fields, tolerating the historical alias spellings. The raw payload is
// preserved for future fields.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	var raw map[string]any
	if err := s.client.GetJSON(ctx, "/settings", nil, &raw); err != nil {
		return Settings{}, err
	}
	return projectSettings(raw), nil
}

func projectSettings(raw map[string]any) Settings {
	return Settings{
		SiteName:     firstString(raw, "site_name", "siteName", "site name", "title"),
		ContactEmail: firstString(raw, "contact_email", "contactEmail", "contact email", "email"),
		Tagline:      firstString(raw, "tagline", "description"),
		Raw:          raw,
	}
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
