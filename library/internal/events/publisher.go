// Package events publishes borrowing slip lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
)

type Publisher struct {
	log      *zap.Logger
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		log:      log.Named("events"),
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(20, 10*time.Second, 0.5, 2),
	}
}

// Publish sends ev keyed by slip id, so events of one slip stay ordered
// within a partition. While the breaker is open events are dropped.
func (p *Publisher) Publish(_ context.Context, ev model.SlipEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal slip event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.SlipID, 10)),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}
	err = p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return err
		}
		p.log.Debug("slip event sent",
			zap.String("event_id", ev.EventID),
			zap.String("type", string(ev.Type)),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
	return errors.Wrapf(err, "send %s", ev.Type)
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// Noop discards events. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, model.SlipEvent) error { return nil }

func (Noop) Close() error { return nil }
