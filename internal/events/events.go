package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubjectCompletions is the subject completion events are published on.
const SubjectCompletions = "chat.completions"

// Completion describes one finished chat exchange for downstream consumers.
type Completion struct {
	ID         uuid.UUID `json:"id"`
	Model      string    `json:"model"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	DurationMS int64     `json:"duration_ms"`
	Cached     bool      `json:"cached"`
	At         time.Time `json:"at"`
}

// Publisher exposes a minimal contract to emit completion events.
type Publisher interface {
	PublishCompletion(ctx context.Context, c Completion) error
	Close() error
}
