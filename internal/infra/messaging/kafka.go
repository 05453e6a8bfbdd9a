package messaging

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Producer streams appointment lifecycle events to a single topic.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish keys messages by appointment so one booking's events stay ordered on a partition.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
