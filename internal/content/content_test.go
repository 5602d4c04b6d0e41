// file: internal/content/content_test.go
// version: 1.0.0
// guid: f431a764-4393-4745-892b-aa32393a2028

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedStrings(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "دەزگای ئایدیا", s.Site.Name.Ku)
	assert.Equal(t, "Idea Foundation", s.Site.Name.En)
	assert.NotEmpty(t, s.Catalog.NoResults.Ku)
	assert.NotEmpty(t, s.Book.Download.Ku)
	assert.NotEmpty(t, s.NotFound.Title.En)
}

func TestAboutSectionsPresent(t *testing.T) {
	s := MustLoad()
	require.NotEmpty(t, s.About.Sections)
	for _, sec := range s.About.Sections {
		assert.NotEmpty(t, sec.Title.Ku)
		assert.NotEmpty(t, sec.Body)
	}
}
