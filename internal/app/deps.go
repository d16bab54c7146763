package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"ollama-bridge/internal/cache"
	"ollama-bridge/internal/config"
	"ollama-bridge/internal/events"
	"ollama-bridge/internal/llm"
	"ollama-bridge/internal/logger"
	"ollama-bridge/internal/ollama"
	"ollama-bridge/internal/retry"
	"ollama-bridge/internal/store"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Ollama *ollama.Client
	LLM    llm.Client
	Cache  cache.Cache
	Store  store.Store
	Events events.Publisher
}

// Build loads env, config, and shared components.
func Build(ctx context.Context) (Deps, error) {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.NewWithFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize logger: %w", err)
	}

	api, err := ollama.NewClient(cfg.OllamaURL, nil)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to build ollama client: %w", err)
	}

	llmClient, err := buildLLM(ctx, cfg, log, api)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}

	return Deps{
		Config: cfg,
		Log:    log,
		Ollama: api,
		LLM:    llmClient,
		Cache:  c,
		Store:  st,
		Events: pub,
	}, nil
}

func buildLLM(ctx context.Context, cfg config.Config, log *slog.Logger, api *ollama.Client) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "ollama":
		// Poll readiness so a just-started server container has a moment
		// to come up; individual chat calls never retry.
		err := retry.Do(ctx, 5, 500*time.Millisecond, func(ctx context.Context) error {
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			_, err := api.Version(probeCtx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("ollama server not reachable at %s: %w", cfg.OllamaURL, err)
		}
		client, err := llm.NewOllamaProvider(ctx, api, log, llm.OllamaOptions{
			ChatTimeout: cfg.ChatTimeout,
			PullTimeout: cfg.PullTimeout,
			StripThink:  cfg.StripThink,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using ollama LLM client", "url", cfg.OllamaURL, "default_model", cfg.DefaultModel)
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, log, cfg.ChatTimeout, cfg.StripThink)
		if err != nil {
			return nil, err
		}
		log.Info("using openai-compatible LLM client", "base_url", cfg.OpenAIBaseURL, "default_model", cfg.DefaultModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: ollama, openai)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return c, nil
	case "none":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, none)", cfg.CacheProvider)
	}
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: postgres, none)", cfg.StoreProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS events publisher", "url", cfg.NATSURL)
		return events.NewNATS(log, nc), nil
	case "none":
		return events.NewNoOpPublisher(), nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: nats, none)", cfg.EventsProvider)
	}
}
