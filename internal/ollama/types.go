package ollama

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries generation parameters forwarded verbatim to the server.
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
	Seed        *int     `json:"seed,omitempty"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// ChatResponse is the non-streaming body of POST /api/chat.
type ChatResponse struct {
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	Message       Message   `json:"message"`
	Done          bool      `json:"done"`
	TotalDuration int64     `json:"total_duration"`
	LoadDuration  int64     `json:"load_duration"`
	EvalCount     int       `json:"eval_count"`
	EvalDuration  int64     `json:"eval_duration"`
}

// Model describes one locally installed model from GET /api/tags.
type Model struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// ListResponse is the body of GET /api/tags.
type ListResponse struct {
	Models []Model `json:"models"`
}

// ProgressResponse is one NDJSON line of a POST /api/pull stream.
type ProgressResponse struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

// StatusError is a non-2xx reply with the server's error message attached.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ollama: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ollama: %s", e.Status)
}

// errorResponse mirrors the server's {"error": "..."} body.
type errorResponse struct {
	Error string `json:"error"`
}

func decodeError(statusCode int, status string, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	return &StatusError{StatusCode: statusCode, Status: status, Message: er.Error}
}
