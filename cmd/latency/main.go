package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ollama-bridge/internal/app"
)

// Measures round-trip latency against the configured inference server:
// one warm-up request, then LATENCY_RUNS timed requests issued by
// LATENCY_WORKERS concurrent workers.
func main() {
	ctx := context.Background()
	deps, err := app.Build(ctx)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	model := deps.Config.DefaultModel
	prompt := deps.Config.LatencyPrompt
	runs := deps.Config.LatencyRuns
	workers := deps.Config.LatencyWorkers
	if workers < 1 {
		workers = 1
	}

	deps.Log.Info("starting latency run", "model", model, "runs", runs, "workers", workers)

	// Warm up so the first timed request doesn't pay the model load cost.
	if _, err := deps.LLM.Respond(ctx, model, "Hi", nil); err != nil {
		deps.Log.Error("warm-up request failed", "err", err)
		os.Exit(1)
	}

	results := make([]time.Duration, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			start := time.Now()
			if _, err := deps.LLM.Respond(gctx, model, prompt, nil); err != nil {
				return err
			}
			elapsed := time.Since(start)
			results[i] = elapsed
			deps.Log.Info("request finished", "run", i, "latency_ms", elapsed.Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		deps.Log.Error("latency run failed", "err", err)
		os.Exit(1)
	}

	s := summarize(results)
	deps.Log.Info("latency summary",
		"model", model,
		"runs", runs,
		"min_ms", s.Min.Milliseconds(),
		"avg_ms", s.Avg.Milliseconds(),
		"max_ms", s.Max.Milliseconds(),
	)
}

type stats struct {
	Min time.Duration
	Avg time.Duration
	Max time.Duration
}

func summarize(durations []time.Duration) stats {
	if len(durations) == 0 {
		return stats{}
	}
	s := stats{Min: durations[0], Max: durations[0]}
	var total time.Duration
	for _, d := range durations {
		total += d
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
	}
	s.Avg = total / time.Duration(len(durations))
	return s
}
