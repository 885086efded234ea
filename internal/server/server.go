// Package server wires the store, services, handlers and middleware together
// and runs the HTTP server.
//
// This is the composition root: every concrete type (which database, whether
// Redis sits in front of the catalog) is chosen here and nowhere else.
//
//	config → store (postgres | sqlite) [→ cache.Store] → services → handlers → chi router
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/sakif/skate-tracker/internal/auth"
	"github.com/sakif/skate-tracker/internal/cache"
	"github.com/sakif/skate-tracker/internal/config"
	"github.com/sakif/skate-tracker/internal/handler"
	"github.com/sakif/skate-tracker/internal/middleware"
	"github.com/sakif/skate-tracker/internal/repository"
	"github.com/sakif/skate-tracker/internal/repository/postgres"
	sqliteRepo "github.com/sakif/skate-tracker/internal/repository/sqlite"
	"github.com/sakif/skate-tracker/internal/service"
)

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the configured store and builds the server around it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds the server around an already-open store. Tests use it
// with an in-memory SQLite database.
func NewWithStore(cfg config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// OpenStore picks PostgreSQL when a database URL is configured and SQLite
// otherwise, then puts the Redis catalog cache in front when REDIS_ADDR is
// set and reachable.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)

	if url := cfg.PostgresURL(); url != "" {
		store, err = postgres.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		logger.Info("using postgres store")
	} else {
		if cfg.SQLitePath != ":memory:" {
			dir := filepath.Dir(cfg.SQLitePath)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		store, err = sqliteRepo.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("using sqlite store", slog.String("path", cfg.SQLitePath))
	}

	if cfg.RedisAddr == "" {
		return store, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		client.Close()
		return store, nil
	}

	logger.Info("catalog cache enabled",
		slog.String("addr", cfg.RedisAddr),
		slog.Duration("ttl", cfg.CatalogCacheTTL),
	)
	return cache.New(store, client, cfg.CatalogCacheTTL, logger), nil
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and routes.
//
// ROUTES:
//
//	GET  /                   liveness text
//	GET  /healthz            database ping
//	GET  /metrics            Prometheus
//	POST /addUser            signup
//	POST /login              login → token
//	GET  /tricks             trick catalog
//	GET  /challenges         challenge catalog
//	GET  /profile            (bearer) username + email
//	POST /profile            (bearer) create/replace extended profile
//	GET  /userProfile        (bearer) extended profile
//	POST /addTrick           (bearer) track a catalog trick
//	GET  /myTricks           (bearer) caller's tricks with status
//	PUT  /updateTrickStatus  (bearer) mark mastered
//	GET  /myProgress         (bearer) challenge progress + points
//
// MIDDLEWARE ORDER:
// RequestID first so every later layer can log it; Recoverer before the
// logger so a panic is logged as a 500; Metrics last so it sees the final
// status of the matched route.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenServiceWithTTL(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordServiceWithCost(s.config.BcryptCost)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	origins := s.config.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	profileService := service.NewProfileService(s.store, s.logger)
	trickService := service.NewTrickService(s.store, s.logger)
	challengeService := service.NewChallengeService(s.store, s.store, s.logger)

	healthHandler := handler.NewHealthHandler(s.store, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	trickHandler := handler.NewTrickHandler(trickService, s.logger)
	challengeHandler := handler.NewChallengeHandler(challengeService, s.logger)

	s.router.Get("/", healthHandler.HandleHome)
	s.router.Get("/healthz", healthHandler.HandleHealthz)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Post("/addUser", authHandler.HandleAddUser)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/tricks", trickHandler.HandleTricks)
	s.router.Get("/challenges", challengeHandler.HandleChallenges)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/profile", authHandler.HandleProfile)
		r.Post("/profile", profileHandler.HandleSaveProfile)
		r.Get("/userProfile", profileHandler.HandleUserProfile)

		r.Post("/addTrick", trickHandler.HandleAddTrick)
		r.Get("/myTricks", trickHandler.HandleMyTricks)
		r.Put("/updateTrickStatus", trickHandler.HandleUpdateTrickStatus)

		r.Get("/myProgress", challengeHandler.HandleMyProgress)
	})

	return nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
