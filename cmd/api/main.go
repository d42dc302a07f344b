// Package main is the entrypoint for the NyaySetu API server.
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

	"github.com/nyaysetu/nyaysetu/internal/archive"
	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/cache"
	"github.com/nyaysetu/nyaysetu/internal/config"
	"github.com/nyaysetu/nyaysetu/internal/gemini"
	"github.com/nyaysetu/nyaysetu/internal/handler"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/mailer"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/repository"
	"github.com/nyaysetu/nyaysetu/internal/server"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply schema before the pool is opened
	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Tokens
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	// Metrics
	metricsRecorder := metrics.NewPrometheus()
	if err := metricsRecorder.Register(repo.Collector(), cacheClient.Collector()); err != nil {
		logger.Warn("pool metrics unavailable", "error", err)
	}

	// Mail
	transport, closeTransport := initMailTransport(cfg, logger)
	mail := mailer.New(transport, cfg.BaseURL, cfg.VerifyTokenTTL, logger)

	// Remote model
	generator := gemini.New(gemini.Config{
		APIKey:            cfg.GeminiAPIKey,
		BaseURL:           cfg.GeminiBaseURL,
		Model:             cfg.GeminiModel,
		Timeout:           cfg.GeminiTimeout,
		MaxRPS:            cfg.GeminiMaxRPS,
		BreakerFailures:   cfg.GeminiBreakerFailures,
		BreakerCooldown:   cfg.GeminiBreakerCooldown,
		SystemInstruction: legal.SystemInstruction,
	}, logger, gemini.WithBreakerObserver(metricsRecorder.SetRemoteBreakerState))
	if !generator.Enabled() {
		logger.Warn("GEMINI_API_KEY not set, answering from offline guides only")
	}

	// Form archive
	var formArchive archive.Archive = archive.Noop{}
	if cfg.FormArchiveEnabled() {
		s3Archive, err := archive.New(ctx, archive.Options{
			Bucket:    cfg.FormArchiveBucket,
			Region:    cfg.FormArchiveRegion,
			Endpoint:  cfg.FormArchiveEndpoint,
			AccessKey: cfg.FormArchiveAccessKey,
			SecretKey: cfg.FormArchiveSecretKey,
		}, logger)
		if err != nil {
			logger.Warn("form archive disabled", "error", err)
		} else {
			formArchive = s3Archive
		}
	}

	// Initialize services
	authService := service.NewAuthService(repo, tokens, mail, cacheClient, service.AuthConfig{
		VerifyTTL:  cfg.VerifyTokenTTL,
		SessionTTL: cfg.SessionTokenTTL,
	}, metricsRecorder, logger)
	history := service.NewHistoryRecorder(repo, metricsRecorder, logger)
	answers := service.NewAnswerResolver(generator, history, metricsRecorder, logger)
	forms := service.NewFormService(history, formArchive, metricsRecorder, logger)

	// Initialize handlers
	handlers := routes{
		root:    handler.New(),
		health:  handler.NewHealthHandler(repo, cacheClient, generator.Enabled(), logger),
		metrics: handler.NewMetricsHandler(metricsRecorder),
		auth:    handler.NewAuthHandler(authService, logger),
		chat:    handler.NewChatHandler(answers, logger),
		forms:   handler.NewFormHandler(forms, logger),
		history: handler.NewHistoryHandler(history, logger),
	}

	// Setup router
	r := setupRouter(handlers, authService, cacheClient, metricsRecorder, cfg, logger)

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("mail transport", func(context.Context) error {
		return closeTransport()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"mail_transport", transport.Name(),
		"remote_model", generator.Model(),
		"form_archive", cfg.FormArchiveEnabled(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initMailTransport picks the configured transport. A broker that cannot be
// reached degrades to the log transport rather than failing startup.
func initMailTransport(cfg *config.Config, logger *slog.Logger) (mailer.Transport, func() error) {
	noClose := func() error { return nil }

	switch cfg.EffectiveMailTransport() {
	case config.MailTransportSMTP:
		return mailer.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom), noClose
	case config.MailTransportAMQP:
		t, err := mailer.NewAMQPTransport(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to connect to mail broker, verification links will be logged",
				slog.String("error", sanitizeError(err, cfg.AMQPURL)),
				slog.String("amqp_url", redactURL(cfg.AMQPURL)),
			)
			return mailer.NewLogTransport(logger), noClose
		}
		return t, t.Close
	default:
		if !strings.EqualFold(cfg.MailTransport, config.MailTransportLog) {
			logger.Warn("mail transport missing settings, verification links will be logged",
				"requested", cfg.MailTransport,
			)
		}
		return mailer.NewLogTransport(logger), noClose
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

// routes groups the HTTP handlers mounted by setupRouter.
type routes struct {
	root    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	auth    *handler.AuthHandler
	chat    *handler.ChatHandler
	forms   *handler.FormHandler
	history *handler.HistoryHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h routes,
	authenticator middleware.Authenticator,
	limiter middleware.RateLimiter,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)

	// Root info endpoint
	r.Get("/", h.root.Root)

	// Auth middleware configuration
	authCfg := middleware.SessionAuthConfig{
		Logger:        logger,
		Authenticator: authenticator,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        logger,
		Limiter:       limiter,
		Metrics:       recorder,
		IPEnabled:     cfg.RateLimitEnabled,
		IPRPS:         cfg.RateLimitRPS,
		IPBurst:       cfg.RateLimitBurst,
		UserEnabled:   cfg.RateLimitEnabled,
		UserPerMinute: cfg.ChatRateLimitPerMinute,
		UserBurst:     cfg.ChatRateLimitBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		// Account lifecycle
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.auth.Register)
			r.Get("/verify", h.auth.Verify)
			r.Post("/verify/resend", h.auth.ResendVerification)
			r.Post("/login", h.auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.SessionAuth(authCfg))
				r.Post("/logout", h.auth.Logout)
				r.Get("/me", h.auth.Me)
			})
		})

		// Signed-in features
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(authCfg))

			r.With(middleware.RateLimitUser(rateLimitCfg)).Post("/chat", h.chat.Ask)

			r.Route("/forms", func(r chi.Router) {
				r.Get("/", h.forms.Types)
				r.Post("/", h.forms.Generate)
				r.Get("/{type}/fields", h.forms.Fields)
			})

			r.Route("/data", func(r chi.Router) {
				r.Get("/chats", h.history.Chats)
				r.Get("/forms", h.history.Forms)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.root.NotFound)
	r.MethodNotAllowed(h.root.MethodNotAllowed)

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
