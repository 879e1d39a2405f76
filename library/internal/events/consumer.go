package events

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

type HandleFunc func(ctx context.Context, ev model.SlipEvent) error

// Consumer is a sarama.ConsumerGroupHandler that decodes slip events.
// Undecodable messages are logged and skipped; a message whose handler
// fails stays unmarked so it is redelivered after a rebalance.
type Consumer struct {
	handle HandleFunc
	log    *zap.Logger
	ready  chan struct{}
}

func NewConsumer(handle HandleFunc, log *zap.Logger) *Consumer {
	return &Consumer{
		handle: handle,
		log:    log.Named("consumer"),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the first session is set up.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-c.ready:
	default:
		close(c.ready)
	}
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				c.log.Warn("message channel was closed")
				return nil
			}
			var ev model.SlipEvent
			if err := json.Unmarshal(message.Value, &ev); err != nil {
				c.log.Error("decode slip event", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}
			if err := c.handle(session.Context(), ev); err != nil {
				c.log.Error("handle slip event", zap.String("event_id", ev.EventID), zap.Error(err))
				continue
			}
			c.log.Debug("message claimed",
				zap.String("topic", message.Topic),
				zap.Int32("partition", message.Partition),
				zap.Int64("offset", message.Offset))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
