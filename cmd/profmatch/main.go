package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/config"
	"github.com/gradlink/profmatch/internal/db"
	dbRedis "github.com/gradlink/profmatch/internal/db/redis"
	logpkg "github.com/gradlink/profmatch/internal/logger"
	"github.com/gradlink/profmatch/internal/metrics"
	documentrepo "github.com/gradlink/profmatch/internal/repository/document"
	"github.com/gradlink/profmatch/internal/repository/embcache"
	notificationrepo "github.com/gradlink/profmatch/internal/repository/notification"
	profilerepo "github.com/gradlink/profmatch/internal/repository/profile"
	registrationrepo "github.com/gradlink/profmatch/internal/repository/registration"
	userrepo "github.com/gradlink/profmatch/internal/repository/user"
	chiTransport "github.com/gradlink/profmatch/internal/transport/chi"
	openaiTransport "github.com/gradlink/profmatch/internal/transport/openai"
	corpusuc "github.com/gradlink/profmatch/internal/usecase/corpus"
	healthuc "github.com/gradlink/profmatch/internal/usecase/health"
	matchinguc "github.com/gradlink/profmatch/internal/usecase/matching"
	profileuc "github.com/gradlink/profmatch/internal/usecase/profile"
	registrationuc "github.com/gradlink/profmatch/internal/usecase/registration"
	"github.com/gradlink/profmatch/internal/version"
)

func main() {
	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting profmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	ensureIndexes(ctx, store, logger)

	// Embedder chain: OpenAI -> Cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, baseEmbedder, store,
		time.Duration(cfg.Embedding.CacheTTLHr)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	rationale := openaiTransport.NewRationaleGenerator(&openaiTransport.RationaleConfig{
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		Model:       cfg.Rationale.Model,
		MaxTokens:   cfg.Rationale.MaxTokens,
		Temperature: cfg.Rationale.Temperature,
		Timeout:     time.Duration(cfg.Rationale.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Repositories
	profiles := profilerepo.New(store)
	registrations := registrationrepo.New(store)
	notifications := notificationrepo.New(store)
	users := userrepo.New(store)
	documents := documentrepo.New(store)

	// Use case services
	corpusSvc := corpusuc.New(profiles, embedder,
		metrics.CorpusSize, metrics.CorpusRefreshTotal, logger)
	matchingSvc := matchinguc.New(corpusSvc, embedder, rationale,
		matchinguc.Options{
			MinTextLen:  cfg.Matching.MinTextLen,
			DefaultTopK: cfg.Matching.DefaultTopK,
			MaxTopK:     cfg.Matching.MaxTopK,
		},
		metrics.MatchRequestsTotal, metrics.MatchRequestDuration, metrics.RationaleTotal,
		logger)
	registrationSvc := registrationuc.New(registrations, profiles, users, documents, notifications, logger)
	profileSvc := profileuc.New(profiles, users)
	healthSvc := healthuc.New(store, baseEmbedder, corpusSvc)

	// Warm the corpus so the first match request does not pay the batch
	// embedding latency. Failure is non-fatal; health reports it.
	if err := corpusSvc.Refresh(ctx); err != nil {
		logger.Warn("Initial corpus refresh failed", zap.Error(err))
	}

	server := chiTransport.NewServer(
		matchingSvc, corpusSvc, registrationSvc, profileSvc, notifications, healthSvc, logger)

	r := chirouter.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.UserIDMiddleware())
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// ensureIndexes creates every FT index the repositories query. An index that
// already exists is left untouched.
func ensureIndexes(ctx context.Context, store db.Store, logger *zap.Logger) {
	defs := []*db.IndexDefinition{
		profilerepo.IndexDefinition(),
		registrationrepo.IndexDefinition(),
		notificationrepo.IndexDefinition(),
	}
	for _, def := range defs {
		if err := store.CreateIndex(ctx, def); err != nil {
			if errors.Is(err, db.ErrIndexExists) {
				continue
			}
			logger.Fatal("Failed to create index", zap.String("index", def.Name), zap.Error(err))
		}
		logger.Info("Created index", zap.String("index", def.Name))
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
