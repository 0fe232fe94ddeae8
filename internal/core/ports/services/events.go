package services

import "context"

// EventPublisher emits domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
