package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

type ConsumerOption func(*kafka.ReaderConfig, *Consumer)

// FromLatest skips history for consumers that only care about what happens next.
func FromLatest() ConsumerOption {
	return func(cfg *kafka.ReaderConfig, _ *Consumer) {
		cfg.StartOffset = kafka.LastOffset
	}
}

func WithConsumerLogger(log *zap.Logger) ConsumerOption {
	return func(_ *kafka.ReaderConfig, c *Consumer) {
		if log != nil {
			c.log = log
		}
	}
}

func NewConsumer(brokers []string, groupID, topic string, opts ...ConsumerOption) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		StartOffset:       kafka.FirstOffset,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
		MaxWait:           time.Second,
	}
	c := &Consumer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg, c)
	}
	c.reader = kafka.NewReader(cfg)
	return c
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is done or handler fails. Cancellation is not an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeChanges decodes every message as a ChangeEvent. Undecodable messages are
// logged and skipped so they cannot wedge the partition.
func (c *Consumer) ConsumeChanges(ctx context.Context, handler func(context.Context, ChangeEvent) error) error {
	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		event, err := DecodeChange(msg)
		if err != nil {
			c.log.Warn("skipping undecodable event", zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
			return nil
		}
		return handler(ctx, event)
	})
}

// DecodeChange is the consumer-side counterpart of Producer.Publish for change events.
func DecodeChange(msg kafka.Message) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	if event.Type == "" {
		return ChangeEvent{}, errors.New("decode change event: missing type")
	}
	return event, nil
}
