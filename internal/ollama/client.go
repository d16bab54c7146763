package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is where a local Ollama server listens.
const DefaultBaseURL = "http://localhost:11434"

// Client talks to the Ollama REST API. The zero value is not usable;
// construct with NewClient.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a client for the server at baseURL. An empty baseURL
// falls back to DefaultBaseURL. Timeouts are applied per call through the
// request context, not on the underlying http.Client.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{base: u, http: httpClient}, nil
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Chat sends a single non-streaming chat request and returns the full reply.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	req.Stream = false
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the models installed on the server.
func (c *Client) List(ctx context.Context) (*ListResponse, error) {
	var resp ListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PullProgressFunc receives each progress line of a pull stream.
type PullProgressFunc func(ProgressResponse)

// Pull downloads a model from the registry, reporting NDJSON progress
// lines to fn (which may be nil). An error line in the stream aborts the
// pull and is returned as a *StatusError.
func (c *Client) Pull(ctx context.Context, name string, fn PullProgressFunc) error {
	body, err := json.Marshal(map[string]any{"model": name})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/api/pull"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, resp.Status, data)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var er errorResponse
		if err := json.Unmarshal(line, &er); err == nil && er.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Message: er.Error}
		}
		var progress ProgressResponse
		if err := json.Unmarshal(line, &progress); err != nil {
			return fmt.Errorf("ollama: malformed pull progress line: %w", err)
		}
		if fn != nil {
			fn(progress)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ollama: pull stream: %w", err)
	}
	return nil
}

// Version returns the server version string from GET /api/version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

func (c *Client) resolve(path string) string {
	return c.base.ResolveReference(&url.URL{Path: path}).String()
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, resp.Status, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ollama: decode %s response: %w", path, err)
	}
	return nil
}
