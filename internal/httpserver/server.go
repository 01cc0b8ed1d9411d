// Package httpserver exposes the service over HTTP. Routes and response
// shapes match the original client contract under /api.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkovac00/travelshare-backend/internal/auth"
	"github.com/mkovac00/travelshare-backend/internal/config"
	"github.com/mkovac00/travelshare-backend/internal/domain"
)

// TokenVerifier validates access tokens presented by clients.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Services bundles the domain services the server exposes.
type Services struct {
	Accounts   *domain.AccountService
	Users      *domain.UserService
	Posts      *domain.PostService
	Graph      *domain.GraphService
	Engagement *domain.EngagementService
	Timeline   *domain.TimelineService
}

// Server is the HTTP server fronting the domain services.
type Server struct {
	services   Services
	media      domain.MediaStore
	tokens     TokenVerifier
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates a new HTTP server with the given services.
func NewServer(cfg *config.Config, services Services, media domain.MediaStore, tokens TokenVerifier, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		media:    media,
		tokens:   tokens,
		logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/signup", s.handleSignup)
	users.POST("/login", s.handleLogin)
	users.Use(s.requireAuth())
	users.GET("/following/:uid", s.handleListFollowing)
	users.GET("/search", s.handleSearchUsers)
	users.GET("/:uid", s.handleGetUser)
	users.GET("/:uid/isfollowed", s.handleIsFollowed)
	users.PUT("/:uid/follow", s.handleToggleFollow)
	users.PATCH("/:uid", s.handleEditUser)

	posts := api.Group("/posts")
	posts.Use(s.requireAuth())
	posts.GET("/:pid", s.handleGetPost)
	posts.GET("/user/:uid", s.handlePostsForUser)
	posts.GET("/user/timeline/:uid", s.handleTimeline)
	posts.GET("/:pid/ishearted", s.handleIsHearted)
	posts.PUT("/:pid/heart", s.handleToggleHeart)
	posts.POST("", s.handleCreatePost)
	posts.DELETE("/:pid", s.handleDeletePost)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
