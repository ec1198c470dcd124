package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/cache"
	"github.com/midori-cloud/kensaku/internal/config"
	"github.com/midori-cloud/kensaku/internal/index"
	logpkg "github.com/midori-cloud/kensaku/internal/logger"
	"github.com/midori-cloud/kensaku/internal/metrics"
	historyrepo "github.com/midori-cloud/kensaku/internal/repository/history"
	"github.com/midori-cloud/kensaku/internal/repository/ranking"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
	chiTransport "github.com/midori-cloud/kensaku/internal/transport/chi"
	documentuc "github.com/midori-cloud/kensaku/internal/usecase/document"
	historyuc "github.com/midori-cloud/kensaku/internal/usecase/history"
	searchuc "github.com/midori-cloud/kensaku/internal/usecase/search"
	"github.com/midori-cloud/kensaku/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kensaku API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("tokenizer_backend", cfg.Tokenizer.Backend),
		zap.Bool("multi_index", cfg.MultiIndex()),
	)

	tok, err := tokenizer.New(cfg.Tokenizer.Backend, logger)
	if err != nil {
		logger.Fatal("Failed to create tokenizer", zap.Error(err))
	}

	// Build the index topology from config
	var topo index.Topology
	if cfg.MultiIndex() {
		regions := make([]*index.Region, len(cfg.Indexes.Prefectures))
		for i, p := range cfg.Indexes.Prefectures {
			regions[i] = index.NewRegion(p.Code)
		}
		topo, err = index.MultiTopology(regions)
		if err != nil {
			logger.Fatal("Failed to build index topology", zap.Error(err))
		}
	} else {
		topo = index.SingleTopology(index.NewRegion(cfg.Indexes.Single.Code))
	}

	directory := index.NewDirectory(logger)
	router := index.NewRouter(topo, logger)

	resultCache, err := cache.New(cfg.Search.CacheSize)
	if err != nil {
		logger.Fatal("Failed to create result cache", zap.Error(err))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// History store (bbolt) and popularity counter
	if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
		logger.Fatal("Failed to create history directory", zap.Error(err))
	}
	historyStore, err := historyrepo.Open(cfg.History.Path, cfg.History.MaxPerUser, logger)
	if err != nil {
		logger.Fatal("Failed to open history store", zap.Error(err))
	}
	defer func() { _ = historyStore.Close() }()

	var counter historyuc.Counter
	switch cfg.Ranking.Driver {
	case "redis":
		redisCounter, err := ranking.NewRedis(ranking.Config{
			Addrs:     cfg.Ranking.Addrs,
			Password:  cfg.Ranking.Password,
			KeyPrefix: cfg.Ranking.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to create ranking counter", zap.Error(err))
		}
		if err := redisCounter.WaitForReady(context.Background(), 30*time.Second); err != nil {
			logger.Fatal("Ranking store not ready", zap.Error(err))
		}
		defer redisCounter.Close()
		counter = redisCounter
		logger.Info("Connected to ranking store", zap.Strings("addrs", cfg.Ranking.Addrs))
	case "memory":
		counter = ranking.NewMemory()
	default:
		logger.Fatal("Unknown ranking driver", zap.String("driver", cfg.Ranking.Driver))
	}

	// Create use case services
	historySvc := historyuc.New(historyStore, counter, tok, logger)
	searchSvc := searchuc.New(router, directory, resultCache, tok, historySvc, logger)
	documentSvc := documentuc.New(topo, directory, resultCache, tok, logger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, documentSvc, historySvc, cfg.Search.Statuses,
		chiTransport.Limits{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
