// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/metrics"
	"github.com/jdfalk/drive-video-sync/internal/server/middleware"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Syncer runs a sync. *videosync.Service implements it.
type Syncer interface {
	Sync(ctx context.Context, opts videosync.Options) (*videosync.SyncResult, error)
}

// SyncDefaults are applied to every sync request.
type SyncDefaults struct {
	Folder     videosync.FolderRef
	MimePrefix string
	UploadedBy string
	BatchSize  int
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	router       *gin.Engine
	syncer       Syncer
	store        database.Store
	defaults     SyncDefaults
	databaseType string

	// syncMu serializes persisting syncs so two accepts cannot race on the
	// same files.
	syncMu sync.Mutex
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// SyncRequestsPerMinute limits POST /drive-sync per client IP.
	SyncRequestsPerMinute int
	MaxBodyBytes          int64
}

// NewServer creates a new server instance
func NewServer(syncer Syncer, store database.Store, defaults SyncDefaults, databaseType string, cfg ServerConfig) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	metrics.Register()

	server := &Server{
		router:       router,
		syncer:       syncer,
		store:        store,
		defaults:     defaults,
		databaseType: databaseType,
	}

	server.setupRoutes(cfg)

	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server...")

	// Give an in-flight sync a deadline to finish its current batch.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

func (s *Server) setupRoutes(cfg ServerConfig) {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/api/v1/health", s.healthCheck)

	limiter := middleware.NewIPRateLimiter(cfg.SyncRequestsPerMinute, 2)

	api := s.router.Group("/api/v1")
	api.Use(middleware.MaxRequestBodySize(cfg.MaxBodyBytes))
	{
		api.GET("/drive-sync", s.previewDriveSync)
		api.POST("/drive-sync", limiter.Middleware(), s.runDriveSync)

		api.GET("/song-videos", s.listSongVideos)
		api.DELETE("/song-videos/:id", s.deleteSongVideo)

		api.GET("/songs", s.searchSongs)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:                  "8080",
		Host:                  "localhost",
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          5 * time.Minute,
		IdleTimeout:           60 * time.Second,
		SyncRequestsPerMinute: 6,
		MaxBodyBytes:          1 << 20,
	}
}
