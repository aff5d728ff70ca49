// Package events fans change notifications out to Kafka and to in-process listeners.
package events

import (
	"context"
	"time"

	"github.com/Domenick1991/opdqueue/internal/kafka"
	"go.uber.org/zap"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Listener is signalled after every change. It must not block.
type Listener interface {
	Changed(event kafka.ChangeEvent)
}

type ListenerFunc func(event kafka.ChangeEvent)

func (f ListenerFunc) Changed(event kafka.ChangeEvent) { f(event) }

// Emitter is what services depend on.
type Emitter interface {
	Emit(ctx context.Context, event kafka.ChangeEvent)
}

type Bus struct {
	producer           Producer
	changesTopic       string
	notificationsTopic string
	listeners          []Listener
	log                *zap.Logger
	now                func() time.Time
}

type Option func(*Bus)

func WithProducer(p Producer, changesTopic string) Option {
	return func(b *Bus) {
		b.producer = p
		b.changesTopic = changesTopic
	}
}

func WithNotificationsTopic(topic string) Option {
	return func(b *Bus) {
		b.notificationsTopic = topic
	}
}

func WithListener(l Listener) Option {
	return func(b *Bus) {
		b.listeners = append(b.listeners, l)
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(b *Bus) {
		b.log = log
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Emit never fails the caller: the change is already committed, so publish
// errors are only logged.
func (b *Bus) Emit(ctx context.Context, event kafka.ChangeEvent) {
	if event.At.IsZero() {
		event.At = b.now()
	}

	if b.producer != nil && b.changesTopic != "" {
		if err := b.producer.Publish(ctx, b.changesTopic, event.Key(), event); err != nil {
			b.log.Warn("failed to publish change event", zap.String("type", event.Type), zap.String("id", event.ID), zap.Error(err))
		}
		if event.Type == kafka.EventBookingCreated && b.notificationsTopic != "" {
			if err := b.producer.Publish(ctx, b.notificationsTopic, event.ID, event); err != nil {
				b.log.Warn("failed to publish notification event", zap.String("id", event.ID), zap.Error(err))
			}
		}
	}

	b.Signal(event)
}

// Signal notifies in-process listeners only, e.g. for events relayed from other instances.
func (b *Bus) Signal(event kafka.ChangeEvent) {
	for _, l := range b.listeners {
		l.Changed(event)
	}
}

var _ Emitter = (*Bus)(nil)
