package kafka

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"
	"golang.org/x/exp/slog"
)

// MessageHandler consumes one raw envelope. A nil return commits the offset;
// an error leaves it uncommitted so the broker's redelivery policy applies.
type MessageHandler interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

// Consumer reads the risk-evaluation topics as one consumer group and feeds
// each message to the handler.
type Consumer struct {
	reader  *kafka.Reader
	handler MessageHandler
	logger  *slog.Logger
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func NewConsumer(logger *slog.Logger, brokers []string, groupID string, topics []string, handler MessageHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With(slog.String("component", "kafka-consumer")),
	}
}

// Start launches the consume loop in its own goroutine.
func (c *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.run(ctx)
}

func (c *Consumer) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Error("fetching message", "err", err)
			continue
		}

		if err := c.handler.HandleMessage(ctx, msg.Value); err != nil {
			c.logger.Error("handling message",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				"err", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("committing offset", "err", err)
		}
	}
}

// Close stops the consume loop and releases the group membership.
func (c *Consumer) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.reader.Close()
	c.wg.Wait()
	return err
}
