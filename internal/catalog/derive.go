// file: internal/catalog/derive.go
// version: 1.3.0
// guid: d94f273f-99dc-4952-b2f3-4e43b331d227

package catalog

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// GeneralGroup is the localized default bucket for ungrouped
// specifications.
const GeneralGroup = "گشتی"

// DisplayDescription returns the richest available description text.
func (b *Book) DisplayDescription() string {
	if b.LongDescription != "" {
		return b.LongDescription
	}
	if b.ShortDescription != "" {
		return b.ShortDescription
	}
	return b.Description
}

// DisplayMetaTitle returns meta_title, falling back to the title.
func (b *Book) DisplayMetaTitle() string {
	if b.MetaTitle != "" {
		return b.MetaTitle
	}
	return b.Title
}

// DisplayMetaDescription returns meta_description, falling back to a
// tag-stripped truncation of the description.
func (b *Book) DisplayMetaDescription() string {
	if b.MetaDescription != "" {
		return b.MetaDescription
	}
	return Truncate(StripHTML(b.DisplayDescription()), 160)
}

// SplitNames splits a comma- or Arabic-comma separated name string.
func SplitNames(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '،'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NamesForRole joins the embedded author entries matching role with the
// Arabic comma.
func (b *Book) NamesForRole(role string) string {
	var names []string
	for _, a := range b.Authors {
		if strings.EqualFold(a.Role, role) && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, "، ")
}

// authorLine joins whatever author projection the server sent: the
// single author relation, or all embedded author names.
func (b *Book) authorLine() string {
	if b.Author != nil && b.Author.Name != "" {
		return b.Author.Name
	}
	var names []string
	for _, a := range b.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func fallbackName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return ""
}

// AuthorText resolves the display author line: role entries first, then
// the denormalized projections, then positional fallback from the
// author_names string.
func (b *Book) AuthorText() string {
	names := SplitNames(b.AuthorNames)
	for _, v := range []string{b.NamesForRole("author"), b.authorLine(), fallbackName(names, 0)} {
		if v != "" {
			return v
		}
	}
	return ""
}

// TranslatorText resolves the display translator line.
func (b *Book) TranslatorText() string {
	names := SplitNames(b.AuthorNames)
	for _, v := range []string{b.TranslatorNames, b.NamesForRole("translator"), b.Translator, fallbackName(names, 1)} {
		if v != "" {
			return v
		}
	}
	return ""
}

// EditorText resolves the display editor line.
func (b *Book) EditorText() string {
	names := SplitNames(b.AuthorNames)
	for _, v := range []string{b.EditorNames, b.NamesForRole("editor"), b.Editor, fallbackName(names, 2)} {
		if v != "" {
			return v
		}
	}
	return ""
}

// FileLabel classifies the downloadable artifact from the file_key
// suffix. Empty when the book has no file.
func (b *Book) FileLabel() string {
	if b.FileKey == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(b.FileKey), ".pdf") {
		return "PDF"
	}
	return "FILE"
}

// SpecGroup is a named bucket of visible specifications.
type SpecGroup struct {
	Name  string
	Specs []Specification
}

// rawSpecs returns whichever specification field the server populated.
func (b *Book) rawSpecs() []Specification {
	if len(b.Specifications) > 0 {
		return b.Specifications
	}
	return b.Specs
}

// SpecGroups buckets the visible specifications by group in first-seen
// order. Blank groups fall into the localized general bucket.
func (b *Book) SpecGroups() []SpecGroup {
	var groups []SpecGroup
	index := map[string]int{}
	for _, s := range b.rawSpecs() {
		if !s.Visible {
			continue
		}
		g := strings.TrimSpace(s.Group)
		if g == "" {
			g = GeneralGroup
		}
		i, ok := index[g]
		if !ok {
			i = len(groups)
			index[g] = i
			groups = append(groups, SpecGroup{Name: g})
		}
		groups[i].Specs = append(groups[i].Specs, s)
	}
	return groups
}

// kurdishMonths maps month numbers to Kurdish month names.
var kurdishMonths = [...]string{
	"کانوونی دووەم", "شوبات", "ئازار", "نیسان", "ئایار", "حوزەیران",
	"تەمموز", "ئاب", "ئەیلوول", "تشرینی یەکەم", "تشرینی دووەم", "کانوونی یەکەم",
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatKurdishDate renders an ISO timestamp in the Kurdish locale.
// Unparseable input is returned unchanged.
func FormatKurdishDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%dی %s %d", t.Day(), kurdishMonths[t.Month()-1], t.Year())
		}
	}
	return s
}

// Truncate shortens text to at most n runes, ending with an ellipsis.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-1]) + "…"
}

// StripHTML flattens markup into its text content. Plain text passes
// through unchanged.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.WriteString(tokenizer.Token().Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
