package ports

import (
	"context"

	"github.com/gigboard/marketplace/internal/core/domain"
)

// ActivitySink accepts events for asynchronous delivery. Emit never blocks on
// the downstream broker.
type ActivitySink interface {
	Emit(event domain.ActivityEvent)
}

// ActivityPublisher delivers a single event to its destination.
type ActivityPublisher interface {
	Publish(ctx context.Context, event domain.ActivityEvent) error
	Close() error
}
