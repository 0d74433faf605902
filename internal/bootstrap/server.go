package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/airline/api"
	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthInterval = 10 * time.Second

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

type Deps struct {
	Flights flights.FlightUseCase
	Users   users.UserUseCase
	Logger  *slog.Logger
	Checks  map[string]Check
}

type Servers struct {
	grpcServer  *grpc.Server
	httpServer  *http.Server
	health      *health.Server
	gatewayConn *grpc.ClientConn
	checks      map[string]Check
	logger      *slog.Logger
}

// Run starts the gRPC health server and the HTTP server and blocks until ctx
// is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	s, err := NewServers(cfg, deps)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go s.watchHealth(ctx)

	s.logger.Info("servers started", "http", cfg.HTTP.Address, "grpc", cfg.GRPC.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewServers(cfg *config.Config, deps Deps) (*Servers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	conn, err := grpc.NewClient(dialAddress(cfg.GRPC.Address), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC %s: %w", cfg.GRPC.Address, err)
	}
	gateway := runtime.NewServeMux(runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))

	router, err := api.NewRouter(api.RouterConfig{
		Flights:        deps.Flights,
		Users:          deps.Users,
		Logger:         logger,
		Session:        cfg.Session,
		SwaggerEnabled: cfg.HTTP.SwaggerEnabled,
		Health:         gateway,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Servers{
		grpcServer:  grpcSrv,
		httpServer:  httpSrv,
		health:      healthSrv,
		gatewayConn: conn,
		checks:      deps.Checks,
		logger:      logger,
	}, nil
}

func (s *Servers) watchHealth(ctx context.Context) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	for {
		s.updateHealth(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// updateHealth runs every check and reports the overall service as serving
// only when all of them pass.
func (s *Servers) updateHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(checkCtx)
		cancel()

		serviceStatus := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			s.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			serviceStatus = healthpb.HealthCheckResponse_NOT_SERVING
			status = serviceStatus
		}
		s.health.SetServingStatus(name, serviceStatus)
	}
	s.health.SetServingStatus("", status)
}

func dialAddress(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
