package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8085"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"` // optional tee of logs to a file

	// Inference server
	OllamaURL    string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"ollama"` // "ollama" (local server) or "openai" (OpenAI-compatible API)
	DefaultModel string        `env:"DEFAULT_MODEL" envDefault:"qwen3:0.6b"`
	ChatTimeout  time.Duration `env:"CHAT_TIMEOUT" envDefault:"120s"` // explicit per-request bound, not a transport default
	PullTimeout  time.Duration `env:"PULL_TIMEOUT" envDefault:"15m"`
	StripThink   bool          `env:"STRIP_THINK" envDefault:"true"`

	// OpenAI-compatible provider
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// Cache
	CacheProvider string        `env:"CACHE_PROVIDER" envDefault:"none"` // "redis" or "none"
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"none"` // "postgres" or "none"
	DBURL         string `env:"DB_URL"`

	// Events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "nats" or "none"
	NATSURL        string `env:"NATS_URL"`

	// Latency benchmark
	LatencyRuns    int    `env:"LATENCY_RUNS" envDefault:"100"`
	LatencyWorkers int    `env:"LATENCY_WORKERS" envDefault:"1"`
	LatencyPrompt  string `env:"LATENCY_PROMPT" envDefault:"Respond with only the exact answer to: 'What is 2+2' and nothing else. Do not explain, do not add formatting, just the plain text response."`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
