package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eventreg/internal/analytics"
	"eventreg/internal/auth"
	"eventreg/internal/bulk"
	"eventreg/internal/checkin"
	"eventreg/internal/config"
	"eventreg/internal/httpapi"
	"eventreg/internal/httpmiddleware"
	"eventreg/internal/logging"
	"eventreg/internal/mail"
	"eventreg/internal/metrics"
	"eventreg/internal/observability"
	"eventreg/internal/qr"
	"eventreg/internal/queue"
	"eventreg/internal/registration"
	"eventreg/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "eventreg-api")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	if err := runHTTP(cfg, lg); err != nil {
		lg.Sugar.Fatalw("http server failed", "err", err)
	}
}

func runHTTP(cfg config.App, lg *logging.Log) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var outbox queue.Queue
	if cfg.QueueBackend == "memory" {
		outbox = queue.NewInMemory(64)
	} else {
		outbox = queue.NewRedisQueue(redisClient.Client, "eventreg:mail")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer)
	repo := registration.NewRepository(db.Client)
	accounts := registration.NewService(repo)
	checkinRepo := checkin.NewRepository(db.Client, repo)
	recorder := checkin.NewRecorder(checkinRepo)
	mailer := mail.NewDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.FromEmail, cfg.SMTPSecure, lg.Sugar)
	if !mailer.Enabled() {
		lg.Sugar.Warn("SMTP configuration not set - email functionality will be disabled")
	}
	importer := bulk.NewImporter(repo, mailer, tokens, qr.NewEncoder(), cfg.QRTokenTTL,
		cfg.PaymentLink, lg.Sugar)
	analyticsSvc := analytics.NewService(db.Client)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware(cfg.FrontendOrigin))
	r.Use(securityHeaders())

	var limiter httpmiddleware.Limiter
	if redisClient.Healthy(context.Background()) {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin, time.Minute)
	} else {
		limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}
	r.Use(httpmiddleware.GinMiddleware(limiter))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	httpapi.New(cfg, lg.Sugar, tokens, accounts, repo, recorder, checkinRepo,
		importer, analyticsSvc, outbox).Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Sugar.Infow("starting server", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Sugar.Fatalw("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Sugar.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Sugar.Warnw("server forced shutdown", "err", err)
	}
	lg.Sugar.Info("server exited")
	return nil
}

// corsMiddleware allows the configured front-end origin; with no origin
// configured it echoes the request origin for local development.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := allowedOrigin
		if origin == "" {
			origin = c.Request.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
