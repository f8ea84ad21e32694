package grpc

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// ServiceName is the identity the daemon reports under in health checks
const ServiceName = "railbot.daemon"

// GameServiceName returns the health service identity for one game. The CLI
// can probe it to see whether the daemon has picked up turns for that game.
func GameServiceName(gameID shared.GameID) string {
	return "railbot.game/" + gameID.Value()
}

// DaemonServer is the gRPC control surface of the daemon. It listens on a
// Unix socket and serves the standard grpc.health.v1 service: one entry for
// the daemon itself and one per game the turn pipeline has touched.
type DaemonServer struct {
	listener net.Listener
	bus      ports.EventSubscriber
	logger   common.TurnLogger

	shutdownTimeout time.Duration

	// Shutdown coordination
	shutdownChan chan os.Signal
	done         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewDaemonServer creates a daemon server listening on socketPath
func NewDaemonServer(
	socketPath string,
	shutdownTimeout time.Duration,
	bus ports.EventSubscriber,
	logger common.TurnLogger,
) (*DaemonServer, error) {
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	server := &DaemonServer{
		listener:        listener,
		bus:             bus,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		shutdownChan:    make(chan os.Signal, 1),
		done:            make(chan struct{}),
	}

	signal.Notify(server.shutdownChan, os.Interrupt, syscall.SIGTERM)

	return server, nil
}

// Start serves health checks until a shutdown signal or Stop call.
// Blocks for the lifetime of the daemon.
func (s *DaemonServer) Start() error {
	s.logger.Log(common.LevelInfo, "daemon server listening", map[string]interface{}{
		"socket": s.listener.Addr().String(),
	})

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if s.bus != nil {
		// Subscribe before serving so no turn event can slip past
		turnCh := s.bus.SubscribeTurnChanged()
		s.wg.Add(1)
		go s.watchGames(healthServer, turnCh)
	}
	go s.handleShutdown()

	errChan := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		s.Stop()
		s.wg.Wait()
		return err
	case <-s.done:
		// New checks report NOT_SERVING while in-flight RPCs drain
		healthServer.Shutdown()
		s.gracefulStop(grpcServer)
		s.wg.Wait()
		return nil
	}
}

// Stop initiates shutdown. Safe to call more than once and from any
// goroutine; Start returns once the server has drained.
func (s *DaemonServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// watchGames keeps one health entry per game. A game starts reporting
// SERVING on its first turn change and flips to NOT_SERVING when the
// daemon shuts down (health.Server.Shutdown covers every registered
// service).
func (s *DaemonServer) watchGames(healthServer *health.Server, turnCh <-chan ports.TurnChangedEvent) {
	defer s.wg.Done()
	defer s.bus.UnsubscribeTurnChanged(turnCh)

	seen := make(map[string]bool)
	for {
		select {
		case evt := <-turnCh:
			name := GameServiceName(evt.GameID)
			if !seen[name] {
				seen[name] = true
				healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
			}
		case <-s.done:
			return
		}
	}
}

// handleShutdown converts process signals into a Stop
func (s *DaemonServer) handleShutdown() {
	select {
	case sig := <-s.shutdownChan:
		s.logger.Log(common.LevelInfo, "shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		s.Stop()
	case <-s.done:
	}
}

// gracefulStop drains in-flight RPCs, falling back to a hard stop when the
// shutdown timeout passes
func (s *DaemonServer) gracefulStop(grpcServer *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	select {
	case <-stopped:
	case <-time.After(timeout):
		s.logger.Log(common.LevelWarn, "graceful stop timed out, forcing close", nil)
		grpcServer.Stop()
	}
}
