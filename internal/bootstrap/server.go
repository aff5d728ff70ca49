package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/opdqueue/config"
	queueapi "github.com/Domenick1991/opdqueue/internal/api/queue_service_api"
	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/service/queue"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
	log        *zap.Logger
}

// NewServers builds the HTTP server around handler and a gRPC server exposing the queue display.
func NewServers(cfg *config.Config, handler http.Handler, display queueapi.Display, sessions queueapi.ScopeChecker, log *zap.Logger) *Servers {
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(queueapi.RequireScope(sessions, domain.ScopeLiveDisplay)))

	limits := queue.Limits{Waiting: cfg.Hall.WaitingLimit, Absent: cfg.Hall.AbsentLimit}
	queueapi.RegisterQueueDisplayServer(grpcSrv, queueapi.NewServer(display, limits))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(queueapi.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run starts gRPC and HTTP servers and blocks until context is canceled or a server fails.
func (s *Servers) Run(ctx context.Context, grpcAddress string) error {
	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", grpcAddress, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("servers started", zap.String("http", s.httpServer.Addr), zap.String("grpc", grpcAddress))

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		_ = s.httpServer.Close()
		return err
	case <-ctx.Done():
		s.log.Info("shutting down servers")
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
