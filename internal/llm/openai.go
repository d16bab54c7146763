package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient serves chats from an OpenAI-compatible API, either
// api.openai.com or a local server exposing the same surface.
type OpenAIClient struct {
	client      *openai.Client
	log         *slog.Logger
	chatTimeout time.Duration
	stripThink  bool
}

// NewOpenAIClient builds a client. baseURL may be empty for
// api.openai.com; local OpenAI-compatible servers pass their own.
func NewOpenAIClient(apiKey, baseURL string, log *slog.Logger, chatTimeout time.Duration, stripThink bool) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if chatTimeout <= 0 {
		chatTimeout = defaultChatTimeout
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		client:      &cli,
		log:         log,
		chatTimeout: chatTimeout,
		stripThink:  stripThink,
	}, nil
}

func (c *OpenAIClient) Respond(ctx context.Context, model, message string, opts *Options) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if model == "" {
		return "", fmt.Errorf("model name required")
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(message),
					},
				},
			},
		},
	}
	if opts != nil {
		if opts.Temperature != nil {
			params.Temperature = openai.Float(*opts.Temperature)
		}
		if opts.MaxTokens != nil {
			params.MaxCompletionTokens = openai.Int(int64(*opts.MaxTokens))
		}
		if opts.Seed != nil {
			params.Seed = openai.Int(int64(*opts.Seed))
		}
	}

	resp, err := c.client.Chat.Completions.New(reqCtx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned for model %s", model)
	}
	content := resp.Choices[0].Message.Content
	if c.stripThink {
		content = StripThink(content)
	}
	c.log.Info("model response", "model", model, "response", content)
	return content, nil
}

func (c *OpenAIClient) Models(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

// Ensure is a no-op: OpenAI-compatible servers manage their own models.
func (c *OpenAIClient) Ensure(ctx context.Context, model string) error {
	return nil
}
