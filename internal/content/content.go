// file: internal/content/content.go
// version: 1.1.0
// guid: 5c025254-87a2-4f3b-93e6-bf13bb5c267a

// Package content carries the hand-coded bilingual UI strings and the
// static informational pages. The UI is bilingual by hand-written
// Kurdish/English pairs, not an i18n framework.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed strings.yaml
var rawStrings []byte

// Text is one bilingual string pair.
type Text struct {
	Ku string `yaml:"ku"`
	En string `yaml:"en"`
}

// Section is one titled block of the about page.
type Section struct {
	Title Text   `yaml:"title"`
	Body  []Text `yaml:"body"`
}

// Strings is the full static content document.
type Strings struct {
	Site struct {
		Name    Text `yaml:"name"`
		Tagline Text `yaml:"tagline"`
	} `yaml:"site"`
	Nav struct {
		Home       Text `yaml:"home"`
		Books      Text `yaml:"books"`
		Categories Text `yaml:"categories"`
		Authors    Text `yaml:"authors"`
		About      Text `yaml:"about"`
		Search     Text `yaml:"search"`
	} `yaml:"nav"`
	Catalog struct {
		Title         Text `yaml:"title"`
		SearchPrompt  Text `yaml:"search_prompt"`
		Filters       Text `yaml:"filters"`
		ClearAll      Text `yaml:"clear_all"`
		NoResults     Text `yaml:"no_results"`
		NoResultsHint Text `yaml:"no_results_hint"`
		Loading       Text `yaml:"loading"`
		LoadError     Text `yaml:"load_error"`
		Retry         Text `yaml:"retry"`
	} `yaml:"catalog"`
	Book struct {
		Author      Text `yaml:"author"`
		Translator  Text `yaml:"translator"`
		Editor      Text `yaml:"editor"`
		Download    Text `yaml:"download"`
		Downloading Text `yaml:"downloading"`
		Views       Text `yaml:"views"`
		Downloads   Text `yaml:"downloads"`
		LoadError   Text `yaml:"load_error"`
	} `yaml:"book"`
	About struct {
		Title    Text      `yaml:"title"`
		Sections []Section `yaml:"sections"`
	} `yaml:"about"`
	NotFound struct {
		Title Text `yaml:"title"`
		Back  Text `yaml:"back"`
	} `yaml:"not_found"`
}

// Load parses the embedded strings document.
func Load() (*Strings, error) {
	var s Strings
	if err := yaml.Unmarshal(rawStrings, &s); err != nil {
		return nil, fmt.Errorf("failed to parse embedded strings: %w", err)
	}
	return &s, nil
}

// MustLoad is Load for initialization paths where the embedded document
// is known-good.
func MustLoad() *Strings {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}
