package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

// New returns a Kafka publisher, or Nop when no brokers are configured.
func New(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(brokers)
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka: write to %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
