package queue

import (
	"context"
	"errors"
)

// Queue defines the interface for in-process message queue operations
type Queue interface {
	// Publish publishes a message to the specified topic
	Publish(ctx context.Context, topic string, message []byte) error

	// Consume blocks until a message is available on the topic or ctx is done
	Consume(ctx context.Context, topic string) ([]byte, error)

	// Close closes the queue
	Close() error

	// Health checks the health of the queue
	Health() error
}

// Common errors
var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue buffer is full")
)
