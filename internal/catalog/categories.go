// file: internal/catalog/categories.go
// version: 1.2.0
// guid: 0c5b4616-ee31-4b7e-913e-e3ad9e4f66cf

package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MergeCategories joins the flat category and subcategory lists into a
// tree. Every subcategory whose category_id references a known category
// appears exactly once under that category; orphans are dropped
// silently. The input order of categories is preserved and embedded
// subcategory lists seed the merged result.
func MergeCategories(set CategorySet) []Category {
	merged := make([]Category, len(set.Categories))
	index := make(map[ID]int, len(set.Categories))
	for i, c := range set.Categories {
		clone := c
		clone.Subcategories = make([]Subcategory, len(c.Subcategories))
		copy(clone.Subcategories, c.Subcategories)
		merged[i] = clone
		index[c.ID] = i
	}

	for _, sub := range set.Subcategories {
		i, ok := index[sub.CategoryID]
		if !ok {
			continue
		}
		merged[i].Subcategories = append(merged[i].Subcategories, sub)
	}

	return merged
}

// canon puts a slug or display name into a canonical comparison form:
// NFC-normalized, trimmed, case-folded.
func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// MatchesCategory reports whether value identifies c by slug or name.
func MatchesCategory(c Category, value string) bool {
	v := canon(value)
	return v != "" && (canon(c.Slug) == v || canon(c.Name) == v)
}

// MatchesSubcategory reports whether value identifies s by slug or name.
func MatchesSubcategory(s Subcategory, value string) bool {
	v := canon(value)
	return v != "" && (canon(s.Slug) == v || canon(s.Name) == v)
}

// FindCategory resolves the active category display name for a committed
// category value (slug or name) or numeric id. It returns the matched
// category name, or the raw value when only the value form matched
// nothing in the tree.
func FindCategory(categories []Category, value, id string) string {
	if value != "" {
		for _, c := range categories {
			if MatchesCategory(c, value) {
				return c.Name
			}
		}
		return value
	}
	if id != "" {
		for _, c := range categories {
			if c.ID.String() == id {
				return c.Name
			}
		}
	}
	return ""
}

// FindSubcategory resolves the active subcategory display name across
// the whole tree, falling back to the raw committed value.
func FindSubcategory(categories []Category, value string) string {
	if value == "" {
		return ""
	}
	for _, c := range categories {
		for _, s := range c.Subcategories {
			if MatchesSubcategory(s, value) {
				return s.Name
			}
		}
	}
	return value
}
