package queue

import (
	"context"
	"sync"
)

// MemoryQueue memory-based queue implementation
type MemoryQueue struct {
	topics map[string]chan []byte
	config *MemoryQueueConfig
	mu     sync.RWMutex
	closed bool
}

// MemoryQueueConfig memory queue configuration
type MemoryQueueConfig struct {
	BufferSize int `json:"buffer_size"`
}

// NewMemoryQueue creates a new memory queue instance
func NewMemoryQueue(config *MemoryQueueConfig) (*MemoryQueue, error) {
	if config == nil {
		config = &MemoryQueueConfig{
			BufferSize: 1000,
		}
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}

	return &MemoryQueue{
		topics: make(map[string]chan []byte),
		config: config,
	}, nil
}

// topic returns the channel for a topic, creating it on first use
func (mq *MemoryQueue) topic(name string) (chan []byte, error) {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return nil, ErrQueueClosed
	}

	ch, ok := mq.topics[name]
	if !ok {
		ch = make(chan []byte, mq.config.BufferSize)
		mq.topics[name] = ch
	}
	return ch, nil
}

// Publish publishes a message to the queue
func (mq *MemoryQueue) Publish(ctx context.Context, topic string, message []byte) error {
	ch, err := mq.topic(topic)
	if err != nil {
		return err
	}

	select {
	case ch <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Consume blocks until a message arrives on the topic or ctx is done
func (mq *MemoryQueue) Consume(ctx context.Context, topic string) ([]byte, error) {
	ch, err := mq.topic(topic)
	if err != nil {
		return nil, err
	}

	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrQueueClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the queue and all topic channels
func (mq *MemoryQueue) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return nil
	}
	mq.closed = true

	for _, ch := range mq.topics {
		close(ch)
	}
	return nil
}

// Health checks the health of the queue
func (mq *MemoryQueue) Health() error {
	mq.mu.RLock()
	defer mq.mu.RUnlock()

	if mq.closed {
		return ErrQueueClosed
	}
	return nil
}
