// ABOUTME: Configuration management for the application from flags and environment variables
// ABOUTME: Defines configuration structures for server, storage, extraction, summaries and workers

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// LLM provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	Extractor ExtractorConfig
	LLM       LLMConfig
	Summary   SummaryConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig

	// Warnings collects settings that were adjusted while loading
	Warnings []string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	Redis  RedisConfig
	Memory MemoryConfig

	// SQLitePath is the cache file used by the sqlite backend
	SQLitePath string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration
}

// DatabaseConfig holds article storage configuration
type DatabaseConfig struct {
	Path string
}

// ExtractorConfig holds document fetching configuration
type ExtractorConfig struct {
	FetchTimeout  time.Duration
	FetchAttempts int
	UserAgent     string
	PeekTimeout   time.Duration
	PeekUserAgent string
	PreviewTTL    time.Duration
	ReaderTTL     time.Duration
}

// LLMConfig selects and configures the text-generation backend
type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	Timeout       time.Duration
}

// SummaryConfig holds summary generation parameters
type SummaryConfig struct {
	MaxTokens   int
	Temperature float32
	Language    string
}

// WorkerConfig holds background processing configuration
type WorkerConfig struct {
	Count     int
	QueueSize int
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type rawCfg struct {
	// Server
	Port            string        `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	CORSOrigins     []string      `long:"cors-origin" env:"CORS_ALLOWED_ORIGINS" env-delim:"," default:"*" description:"Allowed CORS origins"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"30s" description:"Grace period for draining requests and background jobs"`

	// Logging
	LogLevel      string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	LogFormat     string `long:"log-format" env:"LOG_FORMAT" default:"json" description:"Log format (json, text)"`
	LogFile       string `long:"log-file" env:"LOG_FILE" description:"Optional rotating log file"`
	LogMaxSizeMB  int    `long:"log-max-size" env:"LOG_MAX_SIZE_MB" default:"100" description:"Log file size in megabytes before rotation"`
	LogMaxBackups int    `long:"log-max-backups" env:"LOG_MAX_BACKUPS" default:"3" description:"Rotated log files to keep"`
	LogMaxAgeDays int    `long:"log-max-age" env:"LOG_MAX_AGE_DAYS" default:"28" description:"Days to keep rotated log files"`

	// Cache
	CacheType       string        `long:"cache-type" env:"CACHE_TYPE" default:"memory" description:"Cache backend (memory, redis, sqlite)"`
	RedisAddress    string        `long:"redis-address" env:"REDIS_ADDRESS" default:"localhost:6379" description:"Redis address"`
	RedisPassword   string        `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
	RedisDB         int           `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	RedisKeyPrefix  string        `long:"redis-key-prefix" env:"REDIS_KEY_PREFIX" default:"foodforbrain:" description:"Prefix for Redis keys"`
	MemoryCleanup   time.Duration `long:"memory-cache-cleanup" env:"MEMORY_CACHE_CLEANUP" default:"10m" description:"Purge interval for the memory cache"`
	CacheSQLitePath string        `long:"cache-sqlite-path" env:"CACHE_SQLITE_PATH" default:"cache.db" description:"SQLite cache file"`
	DatabasePath    string        `long:"database-path" env:"DATABASE_PATH" default:"articles.db" description:"SQLite article database"`
	PreviewCacheTTL time.Duration `long:"preview-cache-ttl" env:"PREVIEW_CACHE_TTL" default:"24h" description:"How long link previews stay cached"`
	ReaderCacheTTL  time.Duration `long:"reader-cache-ttl" env:"READER_CACHE_TTL" default:"1h" description:"How long reader views stay cached"`

	// Extraction
	ExtractTimeout   time.Duration `long:"extract-timeout" env:"EXTRACT_TIMEOUT" default:"10s" description:"Timeout for full document fetches"`
	ExtractAttempts  int           `long:"extract-attempts" env:"EXTRACT_ATTEMPTS" default:"1" description:"Attempts per document fetch on 5xx responses"`
	ExtractUserAgent string        `long:"extract-user-agent" env:"EXTRACT_USER_AGENT" description:"User agent for document fetches (defaults to a desktop browser)"`
	PeekTimeout      time.Duration `long:"peek-timeout" env:"PEEK_TIMEOUT" default:"5s" description:"Timeout for link previews"`
	PeekUserAgent    string        `long:"peek-user-agent" env:"PEEK_USER_AGENT" default:"Mozilla/5.0 (compatible; FoodForBrain/1.0)" description:"User agent for link previews"`

	// Text generation
	LLMProvider   string        `long:"llm-provider" env:"LLM_PROVIDER" default:"openai" description:"Summary backend (openai, gemini, none)"`
	OpenAIAPIKey  string        `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key"`
	OpenAIBaseURL string        `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"Base URL of an OpenAI-compatible endpoint"`
	OpenAIModel   string        `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo" description:"OpenAI model"`
	GeminiAPIKey  string        `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel   string        `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Gemini model"`
	LLMTimeout    time.Duration `long:"llm-timeout" env:"LLM_TIMEOUT" default:"30s" description:"Timeout for a summary call"`

	// Summaries
	SummaryMaxTokens   int     `long:"summary-max-tokens" env:"SUMMARY_MAX_TOKENS" default:"200" description:"Token budget of a summary"`
	SummaryTemperature float32 `long:"summary-temperature" env:"SUMMARY_TEMPERATURE" default:"0.7" description:"Sampling temperature of a summary"`
	SummaryLanguage    string  `long:"summary-language" env:"SUMMARY_LANGUAGE" default:"French" description:"Language summaries are written in"`

	// Workers
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"10" description:"Number of background processing workers"`
	WorkerQueueSize int `long:"worker-queue-size" env:"WORKER_QUEUE_SIZE" default:"100" description:"Pending processing jobs before submissions are refused"`

	// Rate limiting
	RateLimit  int           `long:"rate-limit" env:"RATE_LIMIT" default:"100" description:"Requests allowed per client per window"`
	RateWindow time.Duration `long:"rate-window" env:"RATE_WINDOW" default:"1m" description:"Rate limiting window"`
}

// ErrHelp is returned when help output was requested
var ErrHelp = errors.New("help requested")

// Load parses args and the environment. Flags win over environment variables.
func Load(args []string) (*Config, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               raw.Port,
			CORSAllowedOrigins: raw.CORSOrigins,
			ShutdownTimeout:    raw.ShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:      raw.LogLevel,
			Format:     raw.LogFormat,
			File:       raw.LogFile,
			MaxSizeMB:  raw.LogMaxSizeMB,
			MaxBackups: raw.LogMaxBackups,
			MaxAgeDays: raw.LogMaxAgeDays,
		},
		Cache: CacheConfig{
			Type: strings.ToLower(raw.CacheType),
			Redis: RedisConfig{
				Address:   raw.RedisAddress,
				Password:  raw.RedisPassword,
				DB:        raw.RedisDB,
				KeyPrefix: raw.RedisKeyPrefix,
			},
			Memory:     MemoryConfig{CleanupInterval: raw.MemoryCleanup},
			SQLitePath: raw.CacheSQLitePath,
		},
		Database: DatabaseConfig{Path: raw.DatabasePath},
		Extractor: ExtractorConfig{
			FetchTimeout:  raw.ExtractTimeout,
			FetchAttempts: raw.ExtractAttempts,
			UserAgent:     raw.ExtractUserAgent,
			PeekTimeout:   raw.PeekTimeout,
			PeekUserAgent: raw.PeekUserAgent,
			PreviewTTL:    raw.PreviewCacheTTL,
			ReaderTTL:     raw.ReaderCacheTTL,
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(raw.LLMProvider),
			OpenAIAPIKey:  raw.OpenAIAPIKey,
			OpenAIBaseURL: raw.OpenAIBaseURL,
			OpenAIModel:   raw.OpenAIModel,
			GeminiAPIKey:  raw.GeminiAPIKey,
			GeminiModel:   raw.GeminiModel,
			Timeout:       raw.LLMTimeout,
		},
		Summary: SummaryConfig{
			MaxTokens:   raw.SummaryMaxTokens,
			Temperature: raw.SummaryTemperature,
			Language:    raw.SummaryLanguage,
		},
		Worker: WorkerConfig{
			Count:     raw.WorkerCount,
			QueueSize: raw.WorkerQueueSize,
		},
		RateLimit: RateLimitConfig{
			Requests: raw.RateLimit,
			Window:   raw.RateWindow,
		},
	}

	cfg.degradeProvider()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// degradeProvider switches to the deterministic fallback when the selected provider has no key
func (c *Config) degradeProvider() {
	var key string
	switch c.LLM.Provider {
	case ProviderOpenAI:
		key = c.LLM.OpenAIAPIKey
	case ProviderGemini:
		key = c.LLM.GeminiAPIKey
	default:
		return
	}

	if strings.TrimSpace(key) == "" {
		c.Warnings = append(c.Warnings, fmt.Sprintf(
			"no API key for LLM provider %q; summaries will use the extractive fallback", c.LLM.Provider))
		c.LLM.Provider = ProviderNone
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "memory", "sqlite":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	if c.Extractor.FetchTimeout <= 0 || c.Extractor.PeekTimeout <= 0 {
		return errors.New("extractor timeouts must be positive")
	}
	if c.Extractor.FetchAttempts < 1 {
		return errors.New("extract attempts must be at least 1")
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}

	if c.Summary.MaxTokens < 1 {
		return errors.New("summary max tokens must be at least 1")
	}
	if c.Summary.Temperature < 0 || c.Summary.Temperature > 2 {
		return errors.New("summary temperature must be between 0 and 2")
	}

	if c.Worker.Count < 1 {
		return errors.New("worker count must be at least 1")
	}
	if c.Worker.QueueSize < 1 {
		return errors.New("worker queue size must be at least 1")
	}

	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit must allow at least one request per positive window")
	}

	return nil
}
