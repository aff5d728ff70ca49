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

// HeaderEventType carries ChangeEvent.Type so consumers can filter without decoding.
const HeaderEventType = "event_type"

// Producer writes JSON payloads, hashing keys so one doctor's day lands on one partition.
type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *zap.Logger
	now     func() time.Time
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           20 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		log: log,
		now: time.Now,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	msg, err := p.message(topic, key, payload)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}
	p.log.Debug("event published", zap.String("topic", topic), zap.String("key", key))
	return nil
}

// message stamps change events with their type header and commit time.
func (p *Producer) message(topic, key string, payload interface{}) (kafka.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %T: %w", payload, err)
	}
	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: data, Time: p.now()}
	if event, ok := payload.(ChangeEvent); ok {
		msg.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte(event.Type)}}
		if !event.At.IsZero() {
			msg.Time = event.At
		}
	}
	return msg, nil
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.brokers[0], err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("read partitions: %w", err)
	}
	return nil
}
