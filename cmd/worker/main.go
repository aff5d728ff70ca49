package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/email"
	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/Domenick1991/opdqueue/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "opd-worker")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var transport email.Transport = email.NewLogTransport(zlog.Named("email"))
	if cfg.Email.APIKey != "" {
		transport = email.NewSendGridTransport(cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	}
	sender := email.NewSender(transport, zlog.Named("email"))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic,
		kafka.WithConsumerLogger(zlog.Named("kafka")))
	defer consumer.Close()

	zlog.Info("worker started", zap.String("topic", cfg.Kafka.NotificationsTopic))
	err = consumer.ConsumeChanges(ctx, func(ctx context.Context, event kafka.ChangeEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			// A failed email must not stall the partition.
			zlog.Error("send notification", zap.String("booking_id", event.ID), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		zlog.Fatal("consumer stopped", zap.Error(err))
	}
	zlog.Info("worker stopped")
}
