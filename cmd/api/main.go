// Package main is the entrypoint for the Bookery API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookery/bookery/internal/cache"
	"github.com/bookery/bookery/internal/config"
	"github.com/bookery/bookery/internal/handler"
	"github.com/bookery/bookery/internal/metrics"
	"github.com/bookery/bookery/internal/middleware"
	"github.com/bookery/bookery/internal/migrate"
	"github.com/bookery/bookery/internal/reachcheck"
	"github.com/bookery/bookery/internal/repository"
	"github.com/bookery/bookery/internal/server"
	"github.com/bookery/bookery/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	var recorder metrics.Recorder = metrics.NewNoop()
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewPrometheus(registry)
	}

	checker := reachcheck.New(cfg.ReachCheckURL, cfg.ReachCheckTimeout)

	userService := service.NewUserService(repo, recorder)
	bookService := service.NewBookService(repo, checker, recorder)
	sessionService := service.NewSessionService(repo, cacheClient, cfg.SessionTTL, recorder)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler(userService, logger)
	bookHandler := handler.NewBookHandler(bookService, logger)
	authHandler := handler.NewAuthHandler(sessionService, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		users:    userHandler,
		books:    bookHandler,
		auth:     authHandler,
		sessions: sessionService,
		limiter:  cacheClient,
		metrics:  recorder,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"reachcheck_url", cfg.ReachCheckURL,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health   *handler.HealthHandler
	users    *handler.UserHandler
	books    *handler.BookHandler
	auth     *handler.AuthHandler
	sessions *service.SessionService
	limiter  middleware.LoginLimiter
	metrics  metrics.Recorder
	registry *prometheus.Registry
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(deps.cfg.MaxRequestBodySize))

	if len(deps.cfg.CORSAllowedOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = deps.cfg.CORSAllowedOrigins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	if deps.registry != nil {
		r.Method("GET", "/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	}

	authRequired := middleware.Auth(middleware.AuthConfig{
		Logger:   deps.logger,
		Sessions: deps.sessions,
		Metrics:  deps.metrics,
	})

	loginThrottle := middleware.RateLimitLogin(middleware.RateLimitConfig{
		Logger:         deps.logger,
		Limiter:        deps.limiter,
		Enabled:        deps.cfg.LoginRateLimitEnabled && deps.limiter != nil,
		LoginPerMinute: deps.cfg.LoginRateLimitPerMinute,
		LoginBurst:     deps.cfg.LoginRateLimitBurst,
	})

	r.Route("/auth/api/v1", func(r chi.Router) {
		r.With(loginThrottle).Post("/login/", deps.auth.Login)
		r.With(loginThrottle).Post("/login", deps.auth.Login)
		r.With(authRequired).Post("/logout/", deps.auth.Logout)
		r.With(authRequired).Post("/logout", deps.auth.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/create_user/", deps.users.Create)
			r.Post("/create_user", deps.users.Create)
			r.With(authRequired).Get("/own/", deps.users.Own)
			r.With(authRequired).Get("/own", deps.users.Own)
		})

		r.Route("/books", func(r chi.Router) {
			r.Use(authRequired)
			r.Get("/", deps.books.List)
			r.Post("/", deps.books.Create)
			r.Post("/create_book/", deps.books.Create)
			r.Post("/create_book", deps.books.Create)
			r.Get("/{id}/", deps.books.Get)
			r.Get("/{id}", deps.books.Get)
			r.Put("/{id}/", deps.books.Update)
			r.Put("/{id}", deps.books.Update)
			r.Patch("/{id}/", deps.books.Update)
			r.Patch("/{id}", deps.books.Update)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
