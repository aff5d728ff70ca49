package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/opdqueue/api"
	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/bootstrap"
	"github.com/Domenick1991/opdqueue/internal/cache"
	"github.com/Domenick1991/opdqueue/internal/events"
	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/Domenick1991/opdqueue/internal/live"
	"github.com/Domenick1991/opdqueue/internal/logger"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/Domenick1991/opdqueue/internal/service/booking"
	"github.com/Domenick1991/opdqueue/internal/service/queue"
	"github.com/Domenick1991/opdqueue/internal/service/report"
	"github.com/Domenick1991/opdqueue/internal/service/roster"
	"github.com/Domenick1991/opdqueue/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
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

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "opd-app")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.Store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store = repository.NewMemoryStore()
		zlog.Warn("using in-memory storage, data is lost on restart")
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			zlog.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		pg := repository.NewPGStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			zlog.Fatal("migrate schema", zap.Error(err))
		}
		store = pg
	}

	hub := live.NewHub(cfg.Hall.PollInterval(), zlog.Named("hall"))
	busOpts := []events.Option{events.WithListener(hub), events.WithLogger(zlog.Named("events"))}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog.Named("kafka"))
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			zlog.Warn("kafka unreachable, change events will be retried per publish", zap.Error(err))
		}
		busOpts = append(busOpts,
			events.WithProducer(producer, cfg.Kafka.ChangesTopic),
			events.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}
	bus := events.NewBus(busOpts...)

	var sessionStore session.Store = session.NewMemoryStore()
	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(zlog.Named("booking"))}
	rosterOpts := []roster.Option{roster.WithLogger(zlog.Named("roster"))}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.DoctorsCacheTTL())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			zlog.Fatal("connect redis", zap.Error(err))
		}
		sessionStore = cache.NewRedisSessionStore(redisCache.Client())
		bookingOpts = append(bookingOpts, booking.WithDayLocker(redisCache, cfg.Booking.LockTTL()))
		rosterOpts = append(rosterOpts, roster.WithCache(redisCache))
	}

	guard := session.NewGuard(sessionStore, session.PoliciesFromConfig(cfg.Sessions), session.WithLogger(zlog.Named("session")))
	bookingService := booking.NewBookingService(store.Doctors(), store.Bookings(), bus, bookingOpts...)
	rosterService := roster.NewService(store, bus, rosterOpts...)
	projector := queue.NewProjector(store.Doctors(), store.Bookings())
	reportService := report.NewService(store.Bookings())

	if _, err := rosterService.Doctors(ctx); err != nil {
		zlog.Fatal("load roster", zap.Error(err))
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.LiveGroupID != "" {
		relay := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.LiveGroupID, cfg.Kafka.ChangesTopic,
			kafka.FromLatest(), kafka.WithConsumerLogger(zlog.Named("relay")))
		defer relay.Close()
		go func() {
			err := relay.ConsumeChanges(ctx, func(_ context.Context, event kafka.ChangeEvent) error {
				bus.Signal(event)
				return nil
			})
			if err != nil {
				zlog.Error("relay consumer stopped", zap.Error(err))
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	hallLimits := queue.Limits{Waiting: cfg.Hall.WaitingLimit, Absent: cfg.Hall.AbsentLimit}
	router := api.NewRouter(cfg.HTTP, guard, api.Handlers{
		Sessions:  api.NewSessionHandler(guard),
		Bookings:  api.NewBookingHandler(bookingService),
		Doctors:   api.NewDoctorHandler(rosterService),
		Inquiries: api.NewInquiryHandler(rosterService),
		Queue:     api.NewQueueHandler(projector, hub, hallLimits),
		Reports:   api.NewReportHandler(reportService),
		Admin:     api.NewAdminHandler(rosterService),
	}, zlog.Named("http"))

	servers := bootstrap.NewServers(cfg, router, projector, guard, zlog)
	if err := servers.Run(ctx, cfg.GRPC.Address); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
