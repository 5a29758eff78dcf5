package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/tigelah/issuer-simulator/issuer/models"
)

type PublisherConfig struct {
	Brokers         []string
	TopicAuthorized string
	TopicDeclined   string
}

// Publisher writes terminal pipeline events to the outbound topics, keyed by
// payment id so all events for one payment land on the same partition.
type Publisher struct {
	writer          *kafka.Writer
	topicAuthorized string
	topicDeclined   string
}

func NewPublisher(cfg PublisherConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &Publisher{
		writer:          writer,
		topicAuthorized: cfg.TopicAuthorized,
		topicDeclined:   cfg.TopicDeclined,
	}
}

func (p *Publisher) PublishAuthorized(ctx context.Context, event models.PaymentAuthorized) error {
	msg, err := buildMessage(p.topicAuthorized, event.Key(), event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) PublishDeclined(ctx context.Context, event models.PaymentDeclined) error {
	msg, err := buildMessage(p.topicDeclined, event.Key(), event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(topic, key string, event any) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding event: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}, nil
}
