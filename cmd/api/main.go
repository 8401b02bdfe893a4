// Package main is the entrypoint for the Users API server.
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

	"github.com/openrun/users-api/internal/cache"
	"github.com/openrun/users-api/internal/config"
	"github.com/openrun/users-api/internal/handler"
	"github.com/openrun/users-api/internal/metrics"
	"github.com/openrun/users-api/internal/middleware"
	"github.com/openrun/users-api/internal/repository"
	"github.com/openrun/users-api/internal/server"
	"github.com/openrun/users-api/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo := repository.New(repository.SeedUsers()...)

	deps := routerDeps{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		recorder: metrics.NewNoop(),
	}

	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		prom.TrackUserCount(func() int { return repo.CountUsers(ctx) })
		deps.recorder = prom
		deps.gatherer = prom.Gatherer()
	}

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis", slog.String("redis_url", redactURL(cfg.RedisURL)))

		deps.redis = cacheClient
		if cfg.RateLimitEnabled() {
			deps.limiter = cacheClient
		}
	}

	r := setupRouter(deps)

	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("server running",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"metrics_enabled", cfg.MetricsEnabled,
		"rate_limit_enabled", deps.limiter != nil,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
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
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps carries everything the router is built from.
// redis and limiter stay nil when Redis is not configured.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	repo     *repository.Repository
	recorder metrics.Recorder
	gatherer prometheus.Gatherer
	redis    handler.HealthChecker
	limiter  middleware.IPRateLimiter
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg := deps.cfg
	logger := deps.logger

	userService := service.NewUserService(deps.repo, deps.recorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(deps.repo, deps.redis)
	userHandler := handler.NewUserHandler(userService, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.GetHead)
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(middleware.Metrics(deps.recorder))
	if deps.limiter != nil {
		r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:   logger,
			Limiter:  deps.limiter,
			Recorder: deps.recorder,
			RPS:      cfg.RateLimitRPS,
			Burst:    cfg.RateLimitBurst,
		}))
	}

	r.Get("/", h.Info)

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	if deps.gatherer != nil {
		r.Get("/metrics", handler.NewMetricsHandler(deps.gatherer).Metrics)
	}

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

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
