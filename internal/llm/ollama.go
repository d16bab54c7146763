package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ollama-bridge/internal/ollama"
)

const (
	defaultChatTimeout = 2 * time.Minute
	defaultPullTimeout = 15 * time.Minute
)

// OllamaOptions tunes the provider. Zero values pick the defaults above.
type OllamaOptions struct {
	ChatTimeout time.Duration
	PullTimeout time.Duration
	StripThink  bool
}

// OllamaProvider serves chats from a local Ollama server, pulling models
// from the registry on first use.
type OllamaProvider struct {
	api         *ollama.Client
	log         *slog.Logger
	chatTimeout time.Duration
	pullTimeout time.Duration
	stripThink  bool

	mu       sync.Mutex
	verified map[string]struct{}
}

// NewOllamaProvider builds a provider and verifies the server is
// reachable by listing its installed models, mirroring how the server is
// probed at startup.
func NewOllamaProvider(ctx context.Context, api *ollama.Client, log *slog.Logger, opts OllamaOptions) (*OllamaProvider, error) {
	if api == nil {
		return nil, fmt.Errorf("nil ollama client")
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = defaultChatTimeout
	}
	if opts.PullTimeout <= 0 {
		opts.PullTimeout = defaultPullTimeout
	}

	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	resp, err := api.List(listCtx)
	if err != nil {
		return nil, fmt.Errorf("connect to ollama at %s: %w", api.BaseURL(), err)
	}
	log.Info("ollama connected", "url", api.BaseURL(), "installed_models", len(resp.Models))

	return &OllamaProvider{
		api:         api,
		log:         log,
		chatTimeout: opts.ChatTimeout,
		pullTimeout: opts.PullTimeout,
		stripThink:  opts.StripThink,
		verified:    make(map[string]struct{}),
	}, nil
}

// Respond ensures the model is installed, sends the message as a single
// user turn and returns the assistant content. Empty content is an error.
func (p *OllamaProvider) Respond(ctx context.Context, model, message string, opts *Options) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model name required")
	}
	if err := p.Ensure(ctx, model); err != nil {
		return "", err
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.chatTimeout)
	defer cancel()
	resp, err := p.api.Chat(reqCtx, &ollama.ChatRequest{
		Model:    model,
		Messages: []ollama.Message{{Role: ollama.RoleUser, Content: message}},
		Options:  toOllamaOptions(opts),
	})
	if err != nil {
		return "", err
	}
	content := resp.Message.Content
	if content == "" {
		return "", fmt.Errorf("ollama: empty response content for model %s", model)
	}
	if p.stripThink {
		content = StripThink(content)
	}
	p.log.Info("model response", "model", model, "response", content)
	return content, nil
}

// Models lists the names of models installed on the server.
func (p *OllamaProvider) Models(ctx context.Context) ([]string, error) {
	resp, err := p.api.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Ensure pulls the model from the registry when it is not installed.
// Already-verified models short-circuit the tags round trip.
func (p *OllamaProvider) Ensure(ctx context.Context, model string) error {
	p.mu.Lock()
	_, ok := p.verified[model]
	p.mu.Unlock()
	if ok {
		return nil
	}

	names, err := p.Models(ctx)
	if err != nil {
		return fmt.Errorf("list installed models: %w", err)
	}
	installed := false
	for _, name := range names {
		if name == model {
			installed = true
			break
		}
	}

	if !installed {
		p.log.Info("pulling model", "model", model)
		pullCtx, cancel := context.WithTimeout(ctx, p.pullTimeout)
		defer cancel()
		lastStatus := ""
		err := p.api.Pull(pullCtx, model, func(progress ollama.ProgressResponse) {
			if progress.Status != lastStatus {
				lastStatus = progress.Status
				p.log.Debug("pull progress", "model", model, "status", progress.Status)
			}
		})
		if err != nil {
			return fmt.Errorf("pull model %s: %w", model, err)
		}
		p.log.Info("model pulled", "model", model)
	}

	p.mu.Lock()
	p.verified[model] = struct{}{}
	p.mu.Unlock()
	return nil
}

func toOllamaOptions(opts *Options) *ollama.Options {
	if opts == nil {
		return nil
	}
	return &ollama.Options{
		Temperature: opts.Temperature,
		NumPredict:  opts.MaxTokens,
		Seed:        opts.Seed,
	}
}
