// file: internal/catalog/models.go
// version: 1.3.0
// guid: 456c439c-fe63-4a9e-a086-60ac6425354d

// Package catalog translates the permissive upstream API payloads into a
// single internal model. All envelope and field-alias tolerance lives
// here; downstream code never branches on response shape.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a scalar identifier that the server may encode as a JSON number
// or string. It is normalized to its string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	// Numbers keep their literal form so "1" and 1 compare equal.
	*id = ID(string(b))
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Count is a non-negative integer counter the server may encode as a
// number, numeric string, or omit entirely.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(int(f))
	return nil
}

// Flag is a truthy-integer flag: 1, "1", and true are set; everything
// else is clear.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "1", `"1"`, "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// AuthorRef is one entry of a book's embedded authors sequence. The
// server may send a bare name string instead of an object.
type AuthorRef struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (a *AuthorRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		a.Name = s
		a.Role = ""
		return nil
	}
	type alias AuthorRef
	var aux alias
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = AuthorRef(aux)
	return nil
}

// Specification is one attribute row of a book. Name and value each have
// two accepted field spellings; entries default to visible.
type Specification struct {
	Group   string
	Name    string
	Value   string
	Visible bool
}

func (s *Specification) UnmarshalJSON(b []byte) error {
	var aux struct {
		Group     string `json:"group"`
		SpecName  string `json:"spec_name"`
		Name      string `json:"name"`
		SpecValue string `json:"spec_value"`
		Value     string `json:"value"`
		IsVisible *Flag  `json:"is_visible"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.Group = aux.Group
	s.Name = aux.SpecName
	if s.Name == "" {
		s.Name = aux.Name
	}
	s.Value = aux.SpecValue
	if s.Value == "" {
		s.Value = aux.Value
	}
	s.Visible = aux.IsVisible == nil || bool(*aux.IsVisible)
	return nil
}

// Book is the normalized catalog entity. The server denormalizes
// relations onto it inconsistently; optional fields stay zero-valued
// when absent and unknown fields are ignored, never rejected.
type Book struct {
	ID               ID              `json:"id"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"long_description"`
	Description      string          `json:"description"`
	MetaTitle        string          `json:"meta_title"`
	MetaDescription  string          `json:"meta_description"`
	Thumbnail        string          `json:"thumbnail"`
	FileKey          string          `json:"file_key"`
	AuthorNames      string          `json:"author_names"`
	TranslatorNames  string          `json:"translator_names"`
	EditorNames      string          `json:"editor_names"`
	Translator       string          `json:"translator"`
	Editor           string          `json:"editor"`
	CategoryName     string          `json:"category_name"`
	SubcategoryName  string          `json:"subcategory_name"`
	Author           *AuthorRef      `json:"author"`
	Authors          []AuthorRef     `json:"authors"`
	ViewCount        Count           `json:"view_count"`
	DownloadCount    Count           `json:"download_count"`
	IsFeatured       Flag            `json:"is_featured"`
	IsActive         Flag            `json:"is_active"`
	CreatedAt        string          `json:"created_at"`
	Specifications   []Specification `json:"specifications"`
	Specs            []Specification `json:"specs"`
}

// Author is a directory entry.
type Author struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Initial returns the author's leading character for the avatar fallback.
func (a Author) Initial() string {
	for _, r := range a.Name {
		return string(r)
	}
	return ""
}

// Subcategory is a flat child category linked to its parent by CategoryID.
type Subcategory struct {
	ID         ID     `json:"id"`
	CategoryID ID     `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// Category is a top-level category. Subcategories may arrive embedded or
// be merged in from the flat subcategory list.
type Category struct {
	ID            ID            `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Subcategories []Subcategory `json:"subcategories"`
}

// LinkValue is the value used for category links: slug when present,
// name otherwise.
func (c Category) LinkValue() string {
	if c.Slug != "" {
		return c.Slug
	}
	return c.Name
}

// LinkValue returns the subcategory link value, slug preferred.
func (s Subcategory) LinkValue() string {
	if s.Slug != "" {
		return s.Slug
	}
	return s.Name
}

// Meta is normalized paging information. Nil fields mean the server did
// not report the value; an absent total page count is unknown, never a
// guessed default.
type Meta struct {
	Page       *int `json:"page,omitempty"`
	TotalPages *int `json:"total_pages,omitempty"`
	Total      *int `json:"total,omitempty"`
}

// BookPage is the normalized shape of every paged book listing.
type BookPage struct {
	Data []Book
	Meta Meta
}

// Settings is the projected site settings record. Raw preserves the
// whole payload for fields that do not have a projection yet.
type Settings struct {
	SiteName     string
	ContactEmail string
	Tagline      string
	Raw          map[string]any
}

// Descriptor is the two-variant result of a download call: a server
// pre-signed URL or an inline payload. The variants are mutually
// exclusive; Empty reports a descriptor carrying neither.
type Descriptor struct {
	URL         string
	Data        []byte
	Filename    string
	ContentType string
}

// Empty reports whether the descriptor carries neither a URL nor data.
func (d Descriptor) Empty() bool {
	return d.URL == "" && len(d.Data) == 0
}
