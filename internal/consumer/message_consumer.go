package consumer

import (
	"context"
	"encoding/json"
	"time"

	"shopbot/internal/dedupe"
	"shopbot/internal/handler"
	"shopbot/internal/messenger"
	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/pkg/log"
	"shopbot/pkg/queue"
)

// Replier produces the reply text for one inbound message
type Replier interface {
	HandleText(ctx context.Context, text string) string
}

// MessageConsumer drains the inbound topic and runs the pipeline: dedupe,
// intent dispatch, reply. One reply per message; messages producing an
// empty reply are dropped silently.
type MessageConsumer struct {
	replier Replier
	sender  messenger.Sender
	dedupe  dedupe.Store
	queue   queue.Queue
	tracer  *monitor.Tracer
	stopCh  chan struct{}
}

// NewMessageConsumer creates a message consumer
func NewMessageConsumer(replier Replier, sender messenger.Sender, store dedupe.Store, q queue.Queue, tracer *monitor.Tracer) *MessageConsumer {
	return &MessageConsumer{
		replier: replier,
		sender:  sender,
		dedupe:  store,
		queue:   q,
		tracer:  tracer,
		stopCh:  make(chan struct{}),
	}
}

// Start starts the consumer loop
func (c *MessageConsumer) Start(ctx context.Context) {
	log.Info("Starting message consumer")

	go func() {
		for {
			select {
			case <-c.stopCh:
				log.Info("Message consumer stopped")
				return
			case <-ctx.Done():
				log.Info("Message consumer context cancelled")
				return
			default:
				consumeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				data, err := c.queue.Consume(consumeCtx, handler.InboundTopic)
				cancel()

				if err != nil {
					if err == context.DeadlineExceeded {
						continue
					}
					if err == context.Canceled || err == queue.ErrQueueClosed {
						log.Info("Inbound queue closed, stopping consumer")
						return
					}
					log.WithFields(map[string]interface{}{
						"error": err.Error(),
					}).Error("Failed to consume inbound message")
					time.Sleep(1 * time.Second)
					continue
				}

				c.handle(ctx, data)
			}
		}
	}()
}

// handle processes one queued message. All failures are logged and affect
// only this message.
func (c *MessageConsumer) handle(ctx context.Context, data []byte) {
	var msg model.QueuedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.WithError(err).Error("Failed to decode queued message")
		return
	}

	ctx, span := c.tracer.StartMessageSpan(ctx, msg.ID)
	defer span.End()

	if msg.ID != "" {
		seen, err := c.dedupe.Seen(ctx, msg.ID)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"message_id": msg.ID,
				"error":      err.Error(),
			}).Error("Dedupe check failed")
			// process anyway; a duplicate reply beats a dropped one
		} else if seen {
			monitor.MessageDeduped()
			log.WithField("message_id", msg.ID).Debug("Duplicate message, skipping")
			return
		}
	}

	reply := c.replier.HandleText(ctx, msg.Text)
	if reply == "" {
		return
	}

	if err := c.sender.SendText(ctx, msg.From, reply); err != nil {
		log.WithFields(map[string]interface{}{
			"message_id": msg.ID,
			"to":         msg.From,
			"error":      err.Error(),
		}).Error("Failed to send reply")
	}
}

// Stop stops the consumer
func (c *MessageConsumer) Stop() {
	close(c.stopCh)
}
