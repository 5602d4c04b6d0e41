// file: internal/server/templates.go
// version: 1.2.0
// guid: 2046cb8e-4665-43da-9880-2be2c1c230a3

package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"

	"github.com/idea-foundation/reading-room/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the HTML views. In dev mode it reloads parsed
// templates from disk when files change; otherwise the embedded copies
// are parsed once.
type Templates struct {
	mu  sync.RWMutex
	set *template.Template
	dir string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"kurdishDate": catalog.FormatKurdishDate,
		"truncate":    catalog.Truncate,
		"stripHTML":   catalog.StripHTML,
		"fileLabel":   (*catalog.Book).FileLabel,
		"splitNames":  catalog.SplitNames,
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
		"lower": strings.ToLower,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// LoadTemplates parses the embedded template set. dir is only used in
// dev mode as the on-disk source for live reloads.
func LoadTemplates(dir string) (*Templates, error) {
	set, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	return &Templates{set: set, dir: dir}, nil
}

// Render writes the named template with the given data.
func (t *Templates) Render(c *gin.Context, status int, name string, data any) {
	t.mu.RLock()
	set := t.set
	t.mu.RUnlock()

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := set.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("[ERROR] Template %s: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
	}
}

func (t *Templates) reloadFromDisk() {
	set, err := template.New("").Funcs(templateFuncs()).ParseGlob(filepath.Join(t.dir, "*.html"))
	if err != nil {
		log.Printf("[WARN] Template reload failed: %v", err)
		return
	}
	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	log.Printf("[INFO] Templates reloaded from %s", t.dir)
}

// Watch reloads templates from disk whenever a file under dir changes.
// Blocks until ctx is cancelled.
func (t *Templates) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[WARN] Template watcher unavailable: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(t.dir); err != nil {
		log.Printf("[WARN] Cannot watch %s: %v", t.dir, err)
		return
	}
	t.reloadFromDisk()

	// Editors fire bursts of events per save; coalesce them.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(200 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WARN] Template watcher error: %v", err)
		case <-pending:
			pending = nil
			t.reloadFromDisk()
		}
	}
}
