package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	ev := model.SlipEvent{
		Type:      model.EventSlipSubmitted,
		SlipID:    42,
		UserID:    7,
		Status:    model.StatusSubmitted,
		ItemCount: 3,
		Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "slips" {
			return errors.Errorf("unexpected topic %q", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return errors.Errorf("unexpected key %q", key)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got model.SlipEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.EventID == "" || got.Type != ev.Type || got.ItemCount != 3 {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	p := NewPublisher(producer, "slips", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Close())
}

func TestPublisher_BreakerOpens(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	p := NewPublisher(producer, "slips", zap.NewNop())
	p.cb = circuit_breaker.New(2, time.Minute, 1, 1)

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	ctx := context.Background()
	ev := model.SlipEvent{Type: model.EventSlipCreated, SlipID: 1}
	require.ErrorIs(t, p.Publish(ctx, ev), sarama.ErrOutOfBrokers)
	require.ErrorIs(t, p.Publish(ctx, ev), sarama.ErrOutOfBrokers)

	err := p.Publish(ctx, ev)
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.NoError(t, p.Close())
}

func TestNoop(t *testing.T) {
	require.NoError(t, Noop{}.Publish(context.Background(), model.SlipEvent{}))
}
