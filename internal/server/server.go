// Package server wires the application together: it builds every component
// from configuration, maps routes to handlers, and runs the HTTP server
// with graceful shutdown.
//
// This is the composition root. Each layer only receives what it needs: the
// services get repository interfaces, the handlers get services, and nothing
// below this package constructs its own dependencies.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/cache"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/config"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/github"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/handler"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/markdown"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/middleware"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/repository/postfs"
	sqliteRepo "github.com/jacklearntech/firebase-studio-sample-blog/internal/repository/sqlite"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/service"
)

// Server owns the router and the long-lived resources (database connection,
// cache connection) that must be released on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger

	db          *sqliteRepo.DB
	cacheCloser io.Closer // nil for the in-memory cache
}

// New builds the full dependency graph and registers all routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pageCache, cacheCloser, err := newPageCache(cfg.Cache)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Server{
		router:      chi.NewRouter(),
		cfg:         cfg,
		logger:      logger,
		db:          db,
		cacheCloser: cacheCloser,
	}

	if err := s.setupRoutes(pageCache); err != nil {
		s.closeResources()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func newPageCache(cfg config.CacheConfig) (cache.PageCache, io.Closer, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		r, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting page cache: %w", err)
		}
		return r, r, nil
	default:
		return cache.NewMemory(cfg.TTL), nil, nil
	}
}

func (s *Server) setupRoutes(pageCache cache.PageCache) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	sessions, err := auth.NewManager(s.cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	provider, err := github.NewProvider(s.cfg.GitHub.ClientID, s.cfg.GitHub.ClientSecret, s.cfg.GitHub.CallbackURL)
	if err != nil {
		return fmt.Errorf("creating OAuth provider: %w", err)
	}

	ghClient := github.NewClient(github.Repo{
		Owner: s.cfg.GitHub.RepoOwner,
		Name:  s.cfg.GitHub.RepoName,
	}, s.logger)

	posts := postfs.New(s.cfg.PostsDir, s.logger)
	postService := service.NewPostService(ghClient, posts, pageCache, s.cfg.GitHub.PostsPath, s.logger)

	authHandler := handler.NewAuthHandler(provider, ghClient, sessions, s.db, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	pageHandler, err := handler.NewPageHandler(s.cfg.TemplateDir, postService, markdown.NewRenderer(), pageCache, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	// Public pages. OptionalSession lets the templates show who is logged
	// in without blocking anonymous readers.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalSession(sessions))
		r.Get("/", pageHandler.HandleHome)
		r.Get("/posts", pageHandler.HandlePostIndex)
		r.Get("/posts/{slug}", pageHandler.HandlePost)
	})

	// Admin pages. Anonymous visitors are redirected to the login flow.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequirePage(sessions))
		r.Get("/admin", pageHandler.HandleAdmin)
		r.Get("/admin/new-post", pageHandler.HandleNewPost)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.HandleLogin)
		r.Get("/github/callback", authHandler.HandleCallback)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))
		r.Get("/me", authHandler.HandleMe)
		r.Post("/posts", postHandler.HandleSubmit)
	})

	return nil
}

// Start runs the HTTP server until a SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to 30 seconds and releases held resources.
func (s *Server) Start() error {
	defer s.closeResources()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout: 15 * time.Second,
		// A post submission makes two GitHub calls, each with its own
		// 15s budget; the write timeout must outlast both.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("baseURL", s.cfg.BaseURL),
			slog.String("database", s.cfg.DBPath),
			slog.String("postsDir", s.cfg.PostsDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) closeResources() {
	if s.cacheCloser != nil {
		if err := s.cacheCloser.Close(); err != nil {
			s.logger.Warn("closing page cache failed", slog.Any("error", err))
		}
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing database failed", slog.Any("error", err))
	}
}
