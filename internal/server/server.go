// file: internal/server/server.go
// version: 1.5.0
// guid: 5744569c-40ac-4c08-89bd-aece6846d41f

// Package server hosts the reading-room web front-end: gin handlers
// that read the URL as filter state, pull data through the query cache,
// and render HTML views over the upstream catalog.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idea-foundation/reading-room/internal/assets"
	"github.com/idea-foundation/reading-room/internal/catalog"
	"github.com/idea-foundation/reading-room/internal/config"
	"github.com/idea-foundation/reading-room/internal/content"
	"github.com/idea-foundation/reading-room/internal/menu"
	"github.com/idea-foundation/reading-room/internal/metrics"
	"github.com/idea-foundation/reading-room/internal/querycache"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	svc      *catalog.Service
	cache    *querycache.Cache
	resolver assets.Resolver
	strings  *content.Strings
	tmpl     *Templates

	carousel  *menu.Carousel
	downloads *downloadGate
	limiter   *ipRateLimiter

	stopWatch context.CancelFunc
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// GetDefaultServerConfig returns the default server configuration.
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Host:         "localhost",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new server instance over the given catalog service.
func NewServer(svc *catalog.Service) (*Server, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(metricsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	tmpl, err := LoadTemplates(config.AppConfig.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	server := &Server{
		router: router,
		svc:    svc,
		cache:  querycache.New(config.AppConfig.CacheTTL),
		resolver: assets.Resolver{
			R2PublicDomain: config.AppConfig.R2PublicDomain,
			AssetsBaseURL:  config.AppConfig.AssetsBaseURL,
			APIBaseURL:     config.AppConfig.APIBaseURL,
			PathPrefix:     config.AppConfig.AssetsPathPrefix,
		},
		strings:   content.MustLoad(),
		tmpl:      tmpl,
		carousel:  menu.NewCarousel(len(homeSlides)),
		downloads: newDownloadGate(),
		limiter: newIPRateLimiter(
			config.AppConfig.DownloadRatePerMinute,
			config.AppConfig.DownloadBurst,
		),
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	server.stopWatch = cancel
	go server.carousel.Run(watchCtx)
	if config.AppConfig.DevMode {
		go tmpl.Watch(watchCtx)
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	s.router.StaticFS("/static", staticHandler())
	s.router.GET("/healthz", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/", s.handleHome)
	s.router.GET("/books", s.handleBooks)
	s.router.GET("/books/:id", s.handleBookDetail)
	s.router.GET("/books/:id/download", s.limiter.Middleware(), s.handleDownload)
	s.router.GET("/category", s.handleCategories)
	s.router.GET("/category/:id", s.handleCategory)
	s.router.GET("/author", s.handleAuthors)
	s.router.GET("/author/:id", s.handleAuthor)
	s.router.GET("/search", s.handleSearch)
	s.router.GET("/about", s.handleAbout)
	s.router.GET("/partials/menu", s.handleMenuPartial)

	s.router.NoRoute(s.handleNotFound)
}

// Start starts the HTTP server
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("[INFO] Reading room listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Shutting down server...")

	s.stopWatch()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Println("[INFO] Server stopped")
	return nil
}

// Router exposes the gin engine (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Cache exposes the query cache (for testing).
func (s *Server) Cache() *querycache.Cache {
	return s.cache
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"upstream": s.svc.Client().BaseURL(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ulid.Make().String()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "no-route"
		}
		metrics.IncHTTPRequest(route, fmt.Sprintf("%d", c.Writer.Status()))
		metrics.ObserveHTTPDuration(route, time.Since(start))
	}
}
