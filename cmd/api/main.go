// ABOUTME: Main entry point for the FoodForBrain API server
// ABOUTME: Wires together all components, resumes interrupted work and serves HTTP until signalled

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodforbrain-api/api"
	"foodforbrain-api/api/handlers"
	"foodforbrain-api/core/articles"
	"foodforbrain-api/core/extract"
	"foodforbrain-api/core/interfaces"
	"foodforbrain-api/core/reader"
	"foodforbrain-api/core/social"
	"foodforbrain-api/core/summarize"
	"foodforbrain-api/core/workers"
	"foodforbrain-api/infrastructure/cache/memory"
	"foodforbrain-api/infrastructure/cache/redis"
	sqlitecache "foodforbrain-api/infrastructure/cache/sqlite"
	stdhttp "foodforbrain-api/infrastructure/http/standard"
	"foodforbrain-api/infrastructure/llm/gemini"
	"foodforbrain-api/infrastructure/llm/openai"
	"foodforbrain-api/infrastructure/logger/structured"
	"foodforbrain-api/infrastructure/storage/sqlite"
	"foodforbrain-api/pkg/config"

	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain loads configuration, serves until signalled and returns the process exit code.
// Deferred cleanup runs before the caller exits.
func runMain(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := structured.New(structured.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		FilePath:   cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	for _, warning := range cfg.Warnings {
		logger.Warn(warning, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
		return 1
	}

	logger.Info("Server exited", nil)
	return 0
}

// run wires the application and blocks until ctx is cancelled or serving fails
func run(ctx context.Context, cfg *config.Config, logger interfaces.Logger) error {
	logger.Info("Starting FoodForBrain API", map[string]interface{}{
		"port":         cfg.Server.Port,
		"cache_type":   cfg.Cache.Type,
		"database":     cfg.Database.Path,
		"llm_provider": cfg.LLM.Provider,
		"workers":      cfg.Worker.Count,
	})

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open article database: %w", err)
	}
	defer store.Close()

	cache, closeCache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	httpClient := stdhttp.NewStandardHTTPClient(stdhttp.Options{
		Timeout:     cfg.Extractor.FetchTimeout,
		UserAgent:   cfg.Extractor.UserAgent,
		MaxAttempts: cfg.Extractor.FetchAttempts,
	})

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	extractor := extract.NewService(deps, extract.Options{
		FetchTimeout:  cfg.Extractor.FetchTimeout,
		PeekTimeout:   cfg.Extractor.PeekTimeout,
		PeekUserAgent: cfg.Extractor.PeekUserAgent,
		PreviewTTL:    cfg.Extractor.PreviewTTL,
	})

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	summarizer := summarize.NewService(generator, summarize.Config{
		MaxTokens:   cfg.Summary.MaxTokens,
		Temperature: cfg.Summary.Temperature,
		Language:    cfg.Summary.Language,
	}, logger)

	pool := workers.NewPool(workers.Config{
		MaxWorkers:     cfg.Worker.Count,
		QueueSize:      cfg.Worker.QueueSize,
		EnqueueTimeout: workers.DefaultConfig().EnqueueTimeout,
	}, logger)
	if err := pool.Start(); err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}

	orchestrator := articles.NewService(articles.Deps{
		Storage:    store,
		Extractor:  extractor,
		Summarizer: summarizer,
		Dispatcher: pool,
		Logger:     logger,
	})

	if _, err := orchestrator.ResumePending(ctx); err != nil {
		logger.Error("Failed to resume pending articles", map[string]interface{}{
			"error": err.Error(),
		})
	}

	server := api.NewAPI(api.APIConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
	})
	defer server.Close()

	handlers.NewArticleHandler(
		orchestrator,
		social.NewService(store, store),
		reader.NewService(deps, cfg.Extractor.ReaderTTL),
	).RegisterRoutes(server.API)
	handlers.NewPreviewHandler(extractor).RegisterRoutes(server.API)
	handlers.NewHealthHandler(store).RegisterRoutes(server.API)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
			"docs": fmt.Sprintf("http://localhost:%s/docs", cfg.Server.Port),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop intake first so no new jobs arrive while the pool drains
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if err := pool.Stop(shutdownCtx); err != nil {
			logger.Error("Worker pool did not drain", map[string]interface{}{
				"error":   err.Error(),
				"pending": pool.Pending(),
			})
		}
		return nil
	})

	return g.Wait()
}

// newCache builds the configured cache backend and its cleanup
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		cache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis cache: %w", err)
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return cache, closer(cache, logger), nil

	case "sqlite":
		cache, err := sqlitecache.NewSQLiteCache(cfg.Cache.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create sqlite cache: %w", err)
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLitePath,
		})
		return cache, closer(cache, logger), nil

	default:
		logger.Info("Using in-memory cache", nil)
		return memory.NewMemoryCacheWithCleanup(cfg.Cache.Memory.CleanupInterval), func() {}, nil
	}
}

func closer(c io.Closer, logger interfaces.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// newGenerator returns the configured text generator, or nil for extractive summaries only
func newGenerator(ctx context.Context, cfg *config.Config) (interfaces.TextGenerator, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		gen, err := openai.New(openai.Config{
			APIKey:  cfg.LLM.OpenAIAPIKey,
			BaseURL: cfg.LLM.OpenAIBaseURL,
			Model:   cfg.LLM.OpenAIModel,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai generator: %w", err)
		}
		return gen, nil

	case config.ProviderGemini:
		gen, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.LLM.GeminiAPIKey,
			Model:   cfg.LLM.GeminiModel,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini generator: %w", err)
		}
		return gen, nil

	default:
		return nil, nil
	}
}
