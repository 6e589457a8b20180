// Command server starts the MBA profile analyzer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/ai"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/ai/openrouter"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/ai/stub"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/cache"
	httpserver "github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/httpserver"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/remote"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/parser"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/synonym"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/app"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/config"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Caches. Redis when configured so replicas share parse results and
	// embeddings; otherwise bounded in-process maps.
	var (
		parseCache domain.Cache
		embedCache domain.Cache
		pinger     app.Pinger
	)
	if cfg.RedisURL != "" {
		pc, err := cache.NewRedis(cfg.RedisURL, "profile")
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		ec, err := cache.NewRedis(cfg.RedisURL, "embed")
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		parseCache, embedCache = pc, ec
		pinger = pc
		slog.Info("using redis caches")
	} else {
		parseCache = cache.NewMemory(cfg.CacheSize)
		embedCache = cache.NewMemory(cfg.EmbedCacheSize)
	}

	// AI client. Without provider keys the stub keeps the full pipeline
	// runnable locally.
	var aicl domain.AIClient
	if cfg.OpenRouterAPIKey != "" || cfg.OpenAIAPIKey != "" {
		aicl = ai.NewEmbedCache(openrouter.New(cfg), embedCache, cfg.CacheTTL)
	} else {
		slog.Warn("no AI provider keys configured, using stub client")
		aicl = stub.New()
	}

	dict := synonym.DefaultDictionary()
	if cfg.DictionaryPath != "" {
		dict, err = synonym.LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			slog.Error("dictionary load failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
	var synOpts []synonym.Option
	if cfg.SynonymEmbeddings {
		synOpts = append(synOpts, synonym.WithEmbeddings(aicl, cfg.SynonymSimThreshold))
	}
	synonyms := synonym.New(dict, synOpts...)

	profileParser := parser.New(aicl, parseCache, parser.Options{
		Model:            cfg.ChatModel,
		MaxChunks:        cfg.MaxChunks,
		ChunkTokenBudget: cfg.ChunkTokenBudget,
		SingleTimeout:    cfg.SingleChunkTimeout,
		MinChunkTimeout:  cfg.MinChunkTimeout,
		CacheTTL:         cfg.CacheTTL,
	})

	var remoteAnalyzer usecase.RemoteAnalyzer
	if cfg.RemoteAnalyzerEnabled() {
		remoteAnalyzer = remote.New(cfg.AnalyzerURL, cfg.AnalyzerTimeout, cfg.AnalyzerMaxElapsed)
		slog.Info("remote analyzer enabled", slog.String("url", cfg.AnalyzerURL))
	}

	analyze := usecase.NewAnalyze(profileParser, synonyms, remoteAnalyzer)
	srv := httpserver.NewServer(analyze, cfg.MaxUploadBytes())
	handler := app.BuildRouter(cfg, srv, app.BuildReadinessCheck(pinger))

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
