package ports

import "context"

// Port: outbound notifications about scheduling outcomes. Publishing is
// best effort; the engine logs and continues when a publish fails.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, payload any) error
}
