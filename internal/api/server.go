package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ytcast/internal/log"
	"github.com/ytcast/internal/models"
)

// SourceResolver resolves search text and canonical IDs to sources.
type SourceResolver interface {
	Resolve(ctx context.Context, searchText string) (*models.Source, error)
	ResolveByID(ctx context.Context, id string) (*models.Source, error)
}

// FeedBuilder renders the RSS document of a source.
type FeedBuilder interface {
	Build(ctx context.Context, sourceID, host string, opts models.FeedOptions) (string, error)
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// HealthCheck, when set, reports the health of backing services on /health.
	HealthCheck func(ctx context.Context) error
}

// Server represents the API server
type Server struct {
	router  *gin.Engine
	sources SourceResolver
	feeds   FeedBuilder
	health  func(ctx context.Context) error
	logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(sources SourceResolver, feeds FeedBuilder, opts Options) *Server {
	router := gin.New()
	s := &Server{
		router:  router,
		sources: sources,
		feeds:   feeds,
		health:  opts.HealthCheck,
		logger:  log.WithComponent("api"),
	}

	router.Use(gin.Recovery(), requestID(), requestLogger(s.logger), metrics())
	corsConfig := cors.Config{
		AllowOrigins:  opts.AllowedOrigins,
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{"Content-Length", headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	s.setupRoutes()
	return s
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/sources", s.searchSource)
	s.router.GET("/sources/:id", s.getSource)
	s.router.GET("/:id/feed", s.getFeed)
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// searchSource resolves free text, URLs and IDs to a source
func (s *Server) searchSource(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	src, err := s.sources.Resolve(c.Request.Context(), q)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, src)
}

// getSource returns the source with a canonical ID
func (s *Server) getSource(c *gin.Context) {
	src, err := s.sources.ResolveByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, src)
}

// getFeed renders the podcast feed of a source
func (s *Server) getFeed(c *gin.Context) {
	opts, err := feedOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.feeds.Build(c.Request.Context(), c.Param("id"), c.Request.Host, opts)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(doc))
}

func feedOptions(c *gin.Context) (models.FeedOptions, error) {
	quality, err := models.ParseQuality(c.Query("quality"))
	if err != nil {
		return models.FeedOptions{}, err
	}

	var excludeShorts bool
	if v := c.Query("excludeShorts"); v != "" {
		if excludeShorts, err = strconv.ParseBool(v); err != nil {
			return models.FeedOptions{}, errors.New("excludeShorts must be true or false")
		}
	}

	return models.FeedOptions{
		Quality:       quality,
		ExcludeShorts: excludeShorts,
		VideoServer:   c.Query("videoServer"),
	}, nil
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the body
		status = 499
	}

	if status >= http.StatusInternalServerError {
		l := log.WithContext(c.Request.Context(), s.logger)
		l.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
