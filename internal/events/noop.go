package events

import "context"

// NoOpPublisher drops all events; used when no broker is configured.
type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (p *NoOpPublisher) PublishCompletion(ctx context.Context, c Completion) error {
	return nil
}

func (p *NoOpPublisher) Close() error {
	return nil
}
