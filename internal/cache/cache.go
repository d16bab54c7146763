package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache provides chat response caching
type Cache interface {
	// GetResponse retrieves a cached chat response by key
	// Returns nil if not found
	GetResponse(ctx context.Context, key string) (*ChatResult, error)

	// SetResponse stores a chat response with TTL
	SetResponse(ctx context.Context, key string, result *ChatResult, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// ChatResult represents a cached chat response
type ChatResult struct {
	Model      string    `json:"model"`
	Response   string    `json:"response"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// GenerateKey derives a stable cache key from the exchange inputs.
// Temperature participates so deterministic and sampled runs never share
// an entry.
func GenerateKey(model, message string, temperature *float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", model, message)
	if temperature != nil {
		fmt.Fprintf(h, "%g", *temperature)
	}
	return hex.EncodeToString(h.Sum(nil))
}
