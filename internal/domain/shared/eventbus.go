package shared

import "context"

// EventHandler consumes domain events: lifecycle transitions, recorded
// scans, project creation.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the events this handler wants. Empty means all of
	// them, which is how the audit log subscribes.
	EventTypes() []string
}

// EventPublisher is the side the application services see: after an
// aggregate is persisted, its pending events go through here.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the side main.go sees when wiring handlers at boot.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is both halves plus lifecycle control.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
