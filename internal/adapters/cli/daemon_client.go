package cli

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	daemongrpc "github.com/andrescamacho/railbot-go/internal/adapters/grpc"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// DaemonClient talks to the daemon's health surface over its Unix socket
type DaemonClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// NewDaemonClient creates a client for the daemon socket. The connection is
// lazy; a dead daemon surfaces as an error on the first call.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}

	return &DaemonClient{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// Close closes the client connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// CheckDaemon probes the daemon's own health entry
func (c *DaemonClient) CheckDaemon(ctx context.Context) (*healthpb.HealthCheckResponse, error) {
	return c.check(ctx, daemongrpc.ServiceName)
}

// CheckGame probes the health entry of one game
func (c *DaemonClient) CheckGame(ctx context.Context, gameID shared.GameID) (*healthpb.HealthCheckResponse, error) {
	return c.check(ctx, daemongrpc.GameServiceName(gameID))
}

func (c *DaemonClient) check(ctx context.Context, service string) (*healthpb.HealthCheckResponse, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return nil, fmt.Errorf("gRPC call failed: %w", err)
	}
	return resp, nil
}
