// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as storage, caching, HTTP communication, text generation and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache built on go-cache
// - cache/redis: Redis-based cache implementation
// - cache/sqlite: SQLite-backed cache for single-node deployments
// - http/standard: net/http client with browser identification and retries
// - llm/openai: Chat completions over any OpenAI-compatible endpoint
// - llm/gemini: Gemini text generation through the genai SDK
// - logger/structured: logrus logger with optional rotating file output
// - storage/sqlite: Article, reaction and comment persistence with migrations
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCacheWithCleanup(10 * time.Minute)
//	err := cache.Set(ctx, "preview:https://example.com", data, time.Hour)
//	value, err := cache.Get(ctx, "preview:https://example.com")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address:   "localhost:6379",
//	    KeyPrefix: "foodforbrain:",
//	})
//
// # Storage
//
// The article store applies its embedded migrations on open:
//
//	store, err := sqlite.Open("articles.db", logger)
//	id, err := store.CreateProcessingRecord(ctx, url, userID)
//
// # Logger
//
//	logger, err := structured.New(structured.DefaultConfig())
//	logger.Info("Article processing completed", map[string]interface{}{
//	    "article_id": id,
//	})
package infrastructure
