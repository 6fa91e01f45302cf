// Package server wires the application together: database, services,
// handlers, middleware and routes, plus startup and graceful shutdown.
// main.go stays minimal; every dependency is assembled here, in one place.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/handler"
	"github.com/rafid/ideafeed/internal/middleware"
	sqliteRepo "github.com/rafid/ideafeed/internal/repository/sqlite"
	"github.com/rafid/ideafeed/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string
}

// Server owns the router and the database connection. The connection is
// closed during shutdown to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, domain services, handlers, and routes. Each layer receives only
// the interfaces it needs; handlers never touch the database directly.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// Middleware order matters: RequestID and RealIP first so the logger sees
// them, Recoverer before the handlers so a panic becomes a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	identityService := service.NewIdentityService(s.db.Users(), passwords, s.logger)
	socialService := service.NewSocialService(s.db.Follows(), s.db.Users(), s.logger)
	ideaService := service.NewIdeaService(s.db.Ideas(), s.db.Likes(), s.logger)
	feedService := service.NewFeedService(s.db.Ideas(), s.db.Users(), s.logger)

	identityHandler := handler.NewIdentityHandler(identityService, tokens, s.logger)
	socialHandler := handler.NewSocialHandler(socialService, s.logger)
	ideaHandler := handler.NewIdeaHandler(ideaService, s.logger)
	feedHandler := handler.NewFeedHandler(feedService, socialService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Open endpoints: account creation and login.
		r.Post("/register", identityHandler.HandleRegister)
		r.Post("/login", identityHandler.HandleLogin)
		r.Post("/logout", identityHandler.HandleLogout)

		// Everything else requires a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", identityHandler.HandleMe)
			r.Get("/feed", feedHandler.HandleFeed)

			r.Get("/users", identityHandler.HandleListUsers)
			r.Get("/users/{id}/profile", feedHandler.HandleProfile)
			r.Get("/users/{id}/followers", socialHandler.HandleFollowers)
			r.Get("/users/{id}/following", socialHandler.HandleFollowing)
			r.Post("/users/{id}/follow", socialHandler.HandleFollow)
			r.Delete("/users/{id}/follow", socialHandler.HandleUnfollow)

			r.Post("/ideas", ideaHandler.HandleCreate)
			r.Get("/ideas/{id}", ideaHandler.HandleGet)
			r.Put("/ideas/{id}", ideaHandler.HandleUpdate)
			r.Delete("/ideas/{id}", ideaHandler.HandleDelete)
			r.Get("/ideas/{id}/likes", ideaHandler.HandleLikers)
			r.Post("/ideas/{id}/like", ideaHandler.HandleLike)
			r.Delete("/ideas/{id}/like", ideaHandler.HandleUnlike)
		})
	})

	return nil
}

// Handler exposes the router, primarily for tests driving the server
// through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
