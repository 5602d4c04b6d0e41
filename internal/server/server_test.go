// file: internal/server/server_test.go
// version: 1.4.0
// guid: ac38f88c-563c-4c06-a598-280e05dd2151

package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idea-foundation/reading-room/internal/api"
	"github.com/idea-foundation/reading-room/internal/catalog"
	"github.com/idea-foundation/reading-room/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer stands up the full server over a stubbed upstream.
func newTestServer(t *testing.T, upstream http.Handler) *Server {
	t.Helper()
	backend := httptest.NewServer(upstream)
	t.Cleanup(backend.Close)

	config.AppConfig = config.Config{
		APIBaseURL: backend.URL,
		CacheTTL:   time.Minute,
	}
	svc := catalog.NewService(api.NewClient(backend.URL))
	srv, err := NewServer(svc)
	require.NoError(t, err)
	return srv
}

// stubUpstream answers the endpoints the views read.
func stubUpstream() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"items":[{"id":1,"title":"مێژووی کورد","author_names":"سەباح"}],"page":1,"total_pages":3}`)
	})
	mux.HandleFunc("/books/1", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"id":1,"title":"مێژووی کورد","file_key":"books/1.pdf","specifications":[{"spec_name":"لاپەڕە","spec_value":"250"}]}`)
	})
	mux.HandleFunc("/books/1/download", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"url":"https://files.example.com/1.pdf"}`)
	})
	mux.HandleFunc("/books/2/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="two.pdf"`)
		w.Write([]byte("%PDF-1.4 payload"))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"categories":[{"id":1,"name":"مێژوو","slug":"history"}],"subcategories":[{"id":10,"category_id":1,"name":"کۆن","slug":"ancient"}]}`)
	})
	mux.HandleFunc("/authors", func(w http.ResponseWriter, r *http.Request) {
		write(w, `[{"id":1,"name":"سەباح"},{"id":2,"name":"هێمن"}]`)
	})
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"site_name":"ژووری خوێندنەوە"}`)
	})
	return mux
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHomeRenders(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "مێژووی کورد")
}

func TestBooksListingRenders(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "مێژووی کورد")
	assert.Contains(t, body, "/books/1")
}

func TestBooksPaginationLinksPreserveFilters(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books?search=kurd")
	assert.Equal(t, http.StatusOK, w.Code)
	// total_pages=3, so page 2 must be linked with the search kept.
	assert.Contains(t, w.Body.String(), "/books?page=2&amp;search=kurd")
}

func TestBooksActiveFilterChip(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books?category=history")
	assert.Equal(t, http.StatusOK, w.Code)
	// The chip's remove link drops the category from the URL state.
	assert.Contains(t, w.Body.String(), `class="chip" href="/books"`)
}

func TestBookDetailRenders(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books/1")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "مێژووی کورد")
	assert.Contains(t, body, "لاپەڕە")
	assert.Contains(t, body, "/books/1/download")
}

func TestBookDetailUpstreamErrorIs404(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadURLVariantRedirects(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books/1/download")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://files.example.com/1.pdf", w.Header().Get("Location"))
}

func TestDownloadBlobVariantStreams(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books/2/download")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="two.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 payload", w.Body.String())
}

func TestDownloadMissingFileIs404(t *testing.T) {
	mux := stubUpstream().(*http.ServeMux)
	mux.HandleFunc("/books/3/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"no file"}`))
	})
	srv := newTestServer(t, mux)
	w := get(t, srv, "/books/3/download")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchRedirectsIntoCatalog(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/search?q=azadi")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/books?search=azadi", w.Header().Get("Location"))
}

func TestSearchCommitKeepsOtherFilters(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	// Committing a term from page 3 of a category keeps the category
	// and resets the page.
	w := get(t, srv, "/search?q=dark&category=kteb&page=3")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/books?category=kteb&search=dark", w.Header().Get("Location"))
}

func TestNavSearchFormCarriesFilters(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books?category=history")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<input type="hidden" name="category" value="history">`)
}

func TestCategoryRedirectsIntoCatalog(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/category/history")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books?category=history", w.Header().Get("Location"))
}

func TestAuthorsFuzzyFilter(t *testing.T) {
	srv := newTestServer(t, stubUpstream())

	w := get(t, srv, "/author")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "سەباح")
	assert.Contains(t, w.Body.String(), "هێمن")

	w = get(t, srv, "/author?q=سەباح")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "سەباح")
	assert.NotContains(t, w.Body.String(), "هێمن")
}

func TestAuthorRedirectsIntoCatalog(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/author/7")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books?author_id=7", w.Header().Get("Location"))
}

func TestAboutRenders(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/about")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotFoundRenders(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuPartialClosedIsNoContent(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/partials/menu?event=leave")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMenuPartialOpenRendersTree(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/partials/menu?event=enter&category=history")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "مێژوو")
	assert.Contains(t, body, "کۆن")
	assert.Contains(t, body, "highlighted")
}

func TestRequestIDHeaderSet(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRepeatedListingServedFromCache(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"page":1,"total_pages":1}`))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[],"subcategories":[]}`))
	})
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	srv := newTestServer(t, mux)

	get(t, srv, "/books")
	get(t, srv, "/books")
	assert.Equal(t, 1, hits)
}

func TestSidebarLinksCarryCommittedSearch(t *testing.T) {
	srv := newTestServer(t, stubUpstream())
	w := get(t, srv, "/books?search=kurd")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/books?category=history&amp;search=kurd")
}

func TestRetryBypassesCachedError(t *testing.T) {
	failing := true
	mux := http.NewServeMux()
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"title":"دوای هەڵە"}],"page":1,"total_pages":1}`))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[],"subcategories":[]}`))
	})
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	srv := newTestServer(t, mux)

	w := get(t, srv, "/books")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "retry=1")

	// The upstream recovers, but the cached error would be served for
	// the rest of the TTL on a plain re-navigation.
	failing = false
	w = get(t, srv, "/books")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// The retry link forces a revalidation and succeeds.
	w = get(t, srv, "/books?retry=1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "دوای هەڵە")
}

func TestTemplateFuncFileLabel(t *testing.T) {
	tmpl := template.Must(template.New("x").Funcs(templateFuncs()).Parse(`{{fileLabel .}}`))
	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, &catalog.Book{FileKey: "books/1.pdf"}))
	assert.Equal(t, "PDF", buf.String())
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, PageWindow(1, 20))
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10}, PageWindow(7, 20))
	assert.Equal(t, []int{14, 15, 16, 17, 18, 19, 20}, PageWindow(19, 20))
}

func TestDownloadGateBlocksConcurrent(t *testing.T) {
	g := newDownloadGate()
	assert.True(t, g.TryAcquire("1"))
	assert.False(t, g.TryAcquire("1"))
	assert.True(t, g.TryAcquire("2"))
	g.Release("1")
	assert.True(t, g.TryAcquire("1"))
}

func TestIPRateLimiterBudget(t *testing.T) {
	l := newIPRateLimiter(60, 2)
	assert.True(t, l.get("10.0.0.1").Allow())
	assert.True(t, l.get("10.0.0.1").Allow())
	assert.False(t, l.get("10.0.0.1").Allow())
	// Other clients keep their own budget.
	assert.True(t, l.get("10.0.0.2").Allow())
}
