package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exchange is one persisted chat round trip.
type Exchange struct {
	ID         uuid.UUID `json:"id"`
	Model      string    `json:"model"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store defines persistence contract; an external DB implementation can replace this.
type Store interface {
	SaveExchange(ctx context.Context, ex Exchange) (Exchange, error)
	RecentExchanges(ctx context.Context, limit int) ([]Exchange, error)
	Close() error
}
