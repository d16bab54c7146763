package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"ollama-bridge/internal/app"
	"ollama-bridge/internal/cache"
	"ollama-bridge/internal/config"
	"ollama-bridge/internal/events"
	"ollama-bridge/internal/llm"
	"ollama-bridge/internal/store"
)

func newTestDeps(l llm.Client, c cache.Cache, st store.Store, pub events.Publisher) app.Deps {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if pub == nil {
		pub = events.NewNoOpPublisher()
	}
	return app.Deps{
		LLM:    l,
		Cache:  c,
		Store:  st,
		Events: pub,
		Config: config.Config{
			DefaultModel: "qwen3:0.6b",
			CacheTTL:     time.Hour,
		},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setup          func(*llm.MockClient)
		wantStatusCode int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:        "successful chat",
			requestBody: `{"model": "qwen3:0.6b", "message": "Why is the sky blue?"}`,
			setup: func(l *llm.MockClient) {
				l.On("Respond", mock.Anything, "qwen3:0.6b", "Why is the sky blue?", (*llm.Options)(nil)).
					Return("Rayleigh scattering.", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if result["response"] != "Rayleigh scattering." {
					t.Errorf("unexpected response %v", result["response"])
				}
				if result["cached"] != false {
					t.Errorf("expected cached=false, got %v", result["cached"])
				}
			},
		},
		{
			name:        "model defaults when omitted",
			requestBody: `{"message": "Hi"}`,
			setup: func(l *llm.MockClient) {
				l.On("Respond", mock.Anything, "qwen3:0.6b", "Hi", (*llm.Options)(nil)).
					Return("Hello!", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			checkResponse:  func(t *testing.T, resp *http.Response) {},
		},
		{
			name:        "temperature forwarded",
			requestBody: `{"message": "What is 2+2?", "temperature": 0}`,
			setup: func(l *llm.MockClient) {
				l.On("Respond", mock.Anything, "qwen3:0.6b", "What is 2+2?", mock.MatchedBy(func(opts *llm.Options) bool {
					return opts != nil && opts.Temperature != nil && *opts.Temperature == 0
				})).Return("4", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			checkResponse:  func(t *testing.T, resp *http.Response) {},
		},
		{
			name:           "invalid JSON payload returns 400",
			requestBody:    `{invalid json}`,
			setup:          func(l *llm.MockClient) {},
			wantStatusCode: http.StatusBadRequest,
			checkResponse:  func(t *testing.T, resp *http.Response) {},
		},
		{
			name:           "empty message fails validation",
			requestBody:    `{"model": "qwen3:0.6b", "message": ""}`,
			setup:          func(l *llm.MockClient) {},
			wantStatusCode: http.StatusBadRequest,
			checkResponse:  func(t *testing.T, resp *http.Response) {},
		},
		{
			name:        "llm failure returns 500",
			requestBody: `{"message": "Hi"}`,
			setup: func(l *llm.MockClient) {
				l.On("Respond", mock.Anything, "qwen3:0.6b", "Hi", (*llm.Options)(nil)).
					Return("", errors.New("connection refused")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			checkResponse:  func(t *testing.T, resp *http.Response) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLLM := &llm.MockClient{}
			tt.setup(mockLLM)
			deps := newTestDeps(mockLLM, nil, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(tt.requestBody))
			rec := httptest.NewRecorder()
			chatHandler(deps)(rec, req)

			resp := rec.Result()
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatusCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatusCode)
			}
			tt.checkResponse(t, resp)
			mockLLM.AssertExpectations(t)
		})
	}
}

func TestChatHandlerCacheHit(t *testing.T) {
	mockLLM := &llm.MockClient{}
	mockCache := &cache.MockCache{}
	mockCache.On("GetResponse", mock.Anything, mock.Anything).
		Return(&cache.ChatResult{Model: "qwen3:0.6b", Response: "4", DurationMS: 12}, nil).Once()
	deps := newTestDeps(mockLLM, mockCache, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": "What is 2+2?"}`))
	rec := httptest.NewRecorder()
	chatHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result["cached"] != true {
		t.Errorf("expected cached=true, got %v", result["cached"])
	}
	// The provider must not be called on a hit.
	mockLLM.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertExpectations(t)
}

func TestChatHandlerPersistsAndPublishes(t *testing.T) {
	mockLLM := &llm.MockClient{}
	mockLLM.On("Respond", mock.Anything, "qwen3:0.6b", "Hi", (*llm.Options)(nil)).
		Return("Hello!", nil).Once()

	mockStore := &store.MockStore{}
	mockStore.On("SaveExchange", mock.Anything, mock.MatchedBy(func(ex store.Exchange) bool {
		return ex.Model == "qwen3:0.6b" && ex.Prompt == "Hi" && ex.Response == "Hello!"
	})).Return(store.Exchange{}, nil).Once()

	mockEvents := &events.MockPublisher{}
	mockEvents.On("PublishCompletion", mock.Anything, mock.MatchedBy(func(c events.Completion) bool {
		return c.Model == "qwen3:0.6b" && c.Response == "Hello!"
	})).Return(nil).Once()

	deps := newTestDeps(mockLLM, nil, mockStore, mockEvents)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": "Hi"}`))
	rec := httptest.NewRecorder()
	chatHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	mockLLM.AssertExpectations(t)
	mockStore.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestChatHandlerStoreFailureDoesNotFailRequest(t *testing.T) {
	mockLLM := &llm.MockClient{}
	mockLLM.On("Respond", mock.Anything, "qwen3:0.6b", "Hi", (*llm.Options)(nil)).
		Return("Hello!", nil).Once()

	mockStore := &store.MockStore{}
	mockStore.On("SaveExchange", mock.Anything, mock.Anything).
		Return(store.Exchange{}, errors.New("db down")).Once()

	deps := newTestDeps(mockLLM, nil, mockStore, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": "Hi"}`))
	rec := httptest.NewRecorder()
	chatHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestModelsHandler(t *testing.T) {
	mockLLM := &llm.MockClient{}
	mockLLM.On("Models", mock.Anything).Return([]string{"qwen3:0.6b", "gemma2:2b"}, nil).Once()
	deps := newTestDeps(mockLLM, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	modelsHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Models) != 2 {
		t.Errorf("models = %v", result.Models)
	}
}

func TestPullHandler(t *testing.T) {
	mockLLM := &llm.MockClient{}
	mockLLM.On("Ensure", mock.Anything, "gemma2:2b").Return(nil).Once()
	deps := newTestDeps(mockLLM, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/models/pull", bytes.NewBufferString(`{"model": "gemma2:2b"}`))
	rec := httptest.NewRecorder()
	pullHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	mockLLM.AssertExpectations(t)
}

func TestPullHandlerRequiresModel(t *testing.T) {
	deps := newTestDeps(&llm.MockClient{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/models/pull", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	pullHandler(deps)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHistoryHandlerDisabled(t *testing.T) {
	deps := newTestDeps(&llm.MockClient{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	historyHandler(deps)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHistoryHandler(t *testing.T) {
	mockStore := &store.MockStore{}
	mockStore.On("RecentExchanges", mock.Anything, 5).
		Return([]store.Exchange{{Model: "qwen3:0.6b", Prompt: "Hi", Response: "Hello!"}}, nil).Once()
	deps := newTestDeps(&llm.MockClient{}, nil, mockStore, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil)
	rec := httptest.NewRecorder()
	historyHandler(deps)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	mockStore.AssertExpectations(t)
}
