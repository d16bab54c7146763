package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"ollama-bridge/internal/app"
	"ollama-bridge/internal/cache"
	"ollama-bridge/internal/events"
	"ollama-bridge/internal/httputil"
	"ollama-bridge/internal/llm"
	"ollama-bridge/internal/store"
)

type chatRequest struct {
	Model       string   `json:"model" validate:"omitempty,max=200"`
	Message     string   `json:"message" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

type pullRequest struct {
	Model string `json:"model" validate:"required,max=200"`
}

func main() {
	deps, err := app.Build(context.Background())
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/chat", chatHandler(deps))
	r.Get("/api/models", modelsHandler(deps))
	r.Post("/api/models/pull", pullHandler(deps))
	r.Get("/api/history", historyHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr, "default_model", deps.Config.DefaultModel)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func chatHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if req.Model == "" {
			req.Model = deps.Config.DefaultModel
		}

		ctx := r.Context()

		cacheKey := cache.GenerateKey(req.Model, req.Message, req.Temperature)
		if cached, err := deps.Cache.GetResponse(ctx, cacheKey); err == nil && cached != nil {
			deps.Log.Info("cache hit", "model", req.Model)
			writeChatResponse(w, req.Model, cached.Response, cached.DurationMS, true)
			return
		} else if err != nil {
			deps.Log.Warn("cache lookup failed", "err", err)
		}

		opts := buildOptions(req)
		start := time.Now()
		response, err := deps.LLM.Respond(ctx, req.Model, req.Message, opts)
		if err != nil {
			httputil.Fail(deps.Log, w, "chat failed", err, http.StatusInternalServerError)
			return
		}
		durationMS := time.Since(start).Milliseconds()

		recordExchange(ctx, deps, req, response, durationMS)

		if err := deps.Cache.SetResponse(ctx, cacheKey, &cache.ChatResult{
			Model:      req.Model,
			Response:   response,
			DurationMS: durationMS,
			CreatedAt:  time.Now().UTC(),
		}, deps.Config.CacheTTL); err != nil {
			// Log cache write failure but don't fail the request
			deps.Log.Warn("failed to cache response", "err", err)
		}

		writeChatResponse(w, req.Model, response, durationMS, false)
	}
}

// recordExchange persists and publishes the finished exchange; both are
// best-effort and never fail the request.
func recordExchange(ctx context.Context, deps app.Deps, req chatRequest, response string, durationMS int64) {
	if deps.Store != nil {
		if _, err := deps.Store.SaveExchange(ctx, store.Exchange{
			Model:      req.Model,
			Prompt:     req.Message,
			Response:   response,
			DurationMS: durationMS,
		}); err != nil {
			deps.Log.Warn("failed to persist exchange", "err", err)
		}
	}
	if deps.Events != nil {
		if err := deps.Events.PublishCompletion(ctx, events.Completion{
			Model:      req.Model,
			Prompt:     req.Message,
			Response:   response,
			DurationMS: durationMS,
		}); err != nil {
			deps.Log.Warn("failed to publish completion", "err", err)
		}
	}
}

func writeChatResponse(w http.ResponseWriter, model, response string, durationMS int64, cached bool) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"model":       model,
		"response":    response,
		"duration_ms": durationMS,
		"cached":      cached,
	})
}

func buildOptions(req chatRequest) *llm.Options {
	if req.Temperature == nil {
		return nil
	}
	return &llm.Options{Temperature: req.Temperature}
}

func modelsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := deps.LLM.Models(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list models", err, http.StatusBadGateway)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"models": names})
	}
}

func pullHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pullRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if err := deps.LLM.Ensure(r.Context(), req.Model); err != nil {
			httputil.Fail(deps.Log, w, "failed to pull model", err, http.StatusBadGateway)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"model": req.Model, "status": "ready"})
	}
}

func historyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httputil.Fail(deps.Log, w, "history disabled: no store configured", nil, http.StatusServiceUnavailable)
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 200 {
				httputil.Fail(deps.Log, w, "invalid limit", err, http.StatusBadRequest)
				return
			}
			limit = n
		}
		exchanges, err := deps.Store.RecentExchanges(r.Context(), limit)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load history", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"exchanges": exchanges})
	}
}
