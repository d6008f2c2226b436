package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishConsume(t *testing.T) {
	q, err := NewMemoryQueue(nil)
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, "test_topic", []byte("first")))
	require.NoError(t, q.Publish(ctx, "test_topic", []byte("second")))

	msg, err := q.Consume(ctx, "test_topic")
	require.NoError(t, err)
	assert.Equal(t, "first", string(msg))

	msg, err = q.Consume(ctx, "test_topic")
	require.NoError(t, err)
	assert.Equal(t, "second", string(msg))
}

func TestMemoryQueue_ConsumeTimeout(t *testing.T) {
	q, err := NewMemoryQueue(nil)
	require.NoError(t, err)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = q.Consume(ctx, "empty_topic")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueue_Full(t *testing.T) {
	q, err := NewMemoryQueue(&MemoryQueueConfig{BufferSize: 2})
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "t", []byte("1")))
	require.NoError(t, q.Publish(ctx, "t", []byte("2")))

	err = q.Publish(ctx, "t", []byte("3"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestMemoryQueue_Close(t *testing.T) {
	q, err := NewMemoryQueue(nil)
	require.NoError(t, err)

	require.NoError(t, q.Publish(context.Background(), "t", []byte("pending")))
	require.NoError(t, q.Close())

	t.Run("health reports closed", func(t *testing.T) {
		assert.ErrorIs(t, q.Health(), ErrQueueClosed)
	})

	t.Run("publish after close fails", func(t *testing.T) {
		err := q.Publish(context.Background(), "t", []byte("late"))
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("consume after close fails", func(t *testing.T) {
		_, err := q.Consume(context.Background(), "t")
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("double close is safe", func(t *testing.T) {
		assert.NoError(t, q.Close())
	})
}

func TestMemoryQueue_ConcurrentPublish(t *testing.T) {
	q, err := NewMemoryQueue(&MemoryQueueConfig{BufferSize: 100})
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		go func(n int) {
			q.Publish(ctx, "concurrent", []byte(fmt.Sprintf("msg-%d", n)))
		}(i)
	}

	got := 0
	for got < 10 {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		_, err := q.Consume(consumeCtx, "concurrent")
		cancel()
		require.NoError(t, err)
		got++
	}
	assert.Equal(t, 10, got)
}
