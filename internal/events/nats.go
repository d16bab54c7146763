package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NewNATS constructs a thin NATS-based publisher.
func NewNATS(log *slog.Logger, nc *nats.Conn) Publisher {
	return &natsPublisher{log: log, nc: nc}
}

type natsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (p *natsPublisher) PublishCompletion(_ context.Context, c Completion) error {
	if c.Model == "" {
		return errors.New("completion model required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	body, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(SubjectCompletions, body); err != nil {
		return err
	}
	p.log.Debug("completion published", "id", c.ID, "model", c.Model)
	return nil
}

func (p *natsPublisher) Close() error {
	p.nc.Close()
	return nil
}
