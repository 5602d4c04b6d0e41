// file: cmd/root_test.go
// version: 1.1.0
// guid: 6af7ecc2-924a-4521-a179-8cd30bcf728a

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idea-foundation/reading-room/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["fetch"])
	assert.True(t, names["check"])
}

func TestCheckAgainstStubUpstream(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/books":
			w.Write([]byte(`{"items":[{"id":1,"title":"x"}],"page":1,"total_pages":2}`))
		case "/categories":
			w.Write([]byte(`{"categories":[],"subcategories":[]}`))
		case "/authors":
			w.Write([]byte(`[]`))
		case "/settings":
			w.Write([]byte(`{"site_name":"test"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	config.AppConfig = config.Config{APIBaseURL: backend.URL}

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	checkCmd.SetErr(&out)
	checkCmd.SetContext(context.Background())
	err := checkCmd.RunE(checkCmd, nil)
	assert.NoError(t, err)
}

func TestCheckReportsFailures(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	config.AppConfig = config.Config{APIBaseURL: backend.URL}

	checkCmd.SetContext(context.Background())
	err := checkCmd.RunE(checkCmd, nil)
	assert.Error(t, err)
}

func TestFetchSavesBlobVariant(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sample.pdf"`)
		w.Write([]byte("pdf-bytes"))
	}))
	defer backend.Close()

	config.AppConfig = config.Config{APIBaseURL: backend.URL}

	dir := t.TempDir()
	require.NoError(t, fetchCmd.Flags().Set("out", dir))
	fetchCmd.SetContext(context.Background())
	err := fetchCmd.RunE(fetchCmd, []string{"1"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "sample.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}
