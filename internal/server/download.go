// file: internal/server/download.go
// version: 1.3.0
// guid: 48cf842f-ae6e-4bf8-801b-e1c25a335eda

package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/idea-foundation/reading-room/internal/metrics"
)

// fallbackFilename is used when the upstream sends a blob without a
// usable Content-Disposition filename.
const fallbackFilename = "idea-foundation-book.pdf"

// downloadGate tracks books with a download already in flight so a
// double-click cannot start the same fetch twice.
type downloadGate struct {
	mu      sync.Mutex
	pending map[string]bool
}

func newDownloadGate() *downloadGate {
	return &downloadGate{pending: make(map[string]bool)}
}

// TryAcquire marks the book as downloading. Returns false when a
// download for the same book is already running.
func (g *downloadGate) TryAcquire(bookID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[bookID] {
		return false
	}
	g.pending[bookID] = true
	return true
}

func (g *downloadGate) Release(bookID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, bookID)
}

// ipRateLimiter hands out a token-bucket limiter per client IP.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 5
	}
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// Middleware rejects requests that exceed the per-IP budget.
func (l *ipRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "Too many download requests, try again shortly")
			c.Abort()
			return
		}
		c.Next()
	}
}

// handleDownload resolves a book's file and either redirects to the
// hosted URL or streams the blob as an attachment.
func (s *Server) handleDownload(c *gin.Context) {
	bookID := c.Param("id")
	if bookID == "" {
		c.String(http.StatusBadRequest, "missing book id")
		return
	}

	if !s.downloads.TryAcquire(bookID) {
		c.String(http.StatusConflict, "download already in progress for this book")
		return
	}
	defer s.downloads.Release(bookID)

	metrics.IncDownloadStarted()
	desc, err := s.svc.DownloadBook(c.Request.Context(), bookID)
	if err != nil {
		metrics.IncDownloadFailed()
		log.Printf("[ERROR] Download failed for book %s: %v", bookID, err)
		c.String(http.StatusBadGateway, "download failed")
		return
	}
	if desc.Empty() {
		metrics.IncDownloadFailed()
		log.Printf("[WARN] No downloadable file for book %s", bookID)
		c.String(http.StatusNotFound, "no file available for this book")
		return
	}

	if desc.URL != "" {
		c.Redirect(http.StatusFound, desc.URL)
		return
	}

	filename := desc.Filename
	if filename == "" {
		filename = fallbackFilename
	}
	contentType := desc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, desc.Data)
}
