// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// AI providers. Chat extraction goes through an OpenAI-compatible API
	// (OpenRouter by default); embeddings go through OpenAI.
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	ChatModel         string `env:"CHAT_MODEL" envDefault:"meta-llama/llama-3.1-8b-instruct"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel   string `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`

	// Extraction guardrails. SingleChunkTimeout bounds a one-shot parse;
	// multi-chunk calls shrink toward MinChunkTimeout as fan-out widens.
	SingleChunkTimeout time.Duration `env:"SINGLE_CHUNK_TIMEOUT" envDefault:"4500ms"`
	MinChunkTimeout    time.Duration `env:"MIN_CHUNK_TIMEOUT" envDefault:"2500ms"`
	MaxChunks          int           `env:"MAX_CHUNKS" envDefault:"10"`
	ChunkTokenBudget   int           `env:"CHUNK_TOKEN_BUDGET" envDefault:"900"`

	// Caches. With REDIS_URL set both the parser result cache and the
	// embedding cache move to Redis so replicas share entries.
	RedisURL       string        `env:"REDIS_URL"`
	CacheSize      int           `env:"CACHE_SIZE" envDefault:"2048"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	EmbedCacheSize int           `env:"EMBED_CACHE_SIZE" envDefault:"4096"`

	// Synonym normalization. The embedding pass is optional and skipped
	// entirely when disabled (cost control).
	SynonymEmbeddings   bool    `env:"SYNONYM_EMBEDDINGS" envDefault:"false"`
	SynonymSimThreshold float64 `env:"SYNONYM_SIM_THRESHOLD" envDefault:"0.85"`
	DictionaryPath      string  `env:"DICTIONARY_PATH"`

	// Remote analyzer. When set, analysis is attempted remotely first and
	// the local pipeline serves as fallback.
	AnalyzerURL        string        `env:"ANALYZER_URL"`
	AnalyzerTimeout    time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"10s"`
	AnalyzerMaxElapsed time.Duration `env:"ANALYZER_MAX_ELAPSED" envDefault:"20s"`

	// HTTP server.
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"2"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Observability.
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"mba-profile-analyzer"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// RemoteAnalyzerEnabled reports whether the external analysis service is configured.
func (c Config) RemoteAnalyzerEnabled() bool { return strings.TrimSpace(c.AnalyzerURL) != "" }

// MaxUploadBytes converts the configured upload limit to bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }
