package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const SlipTopic = "library.borrow.slips"

type Config struct {
	Enable bool     `yaml:"enable" envconfig:"KAFKA_ENABLE"`
	Addrs  []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	Topic  string   `yaml:"topic" envconfig:"KAFKA_TOPIC" default:"library.borrow.slips"`
}

func NewProducerConfig() *sarama.Config {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3
	defaultCfg.Producer.Timeout = 5 * time.Second
	defaultCfg.Net.DialTimeout = 3 * time.Second
	return defaultCfg
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Addrs, NewProducerConfig())
}

// SlipWatchGroup is the consumer group used by the event watcher.
const SlipWatchGroup = "library.borrow.watch"

func NewConsumerGroup(cfg Config, group string) (sarama.ConsumerGroup, error) {
	c := sarama.NewConfig()
	c.Consumer.Offsets.Initial = sarama.OffsetOldest
	c.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin //nolint:staticcheck
	c.Consumer.Return.Errors = true
	return sarama.NewConsumerGroup(cfg.Addrs, group, c)
}

// Consume runs handler over topic until ctx is done. sarama returns from
// Consume on every rebalance, so it is called in a loop.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string) error {
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
