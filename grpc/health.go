package grpc

import (
	"fmt"
	"net"

	"github.com/rs/zerolog"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall status.
const ServiceName = "audit.relay"

// HealthServer exposes the standard gRPC health service for the relay.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	log    zerolog.Logger
}

// NewHealthServer creates a server that reports NOT_SERVING until SetServing(true).
func NewHealthServer(log zerolog.Logger) *HealthServer {
	h := &HealthServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
		log:    log.With().Str("component", "health").Logger(),
	}
	healthpb.RegisterHealthServer(h.server, h.health)
	h.SetServing(false)
	return h
}

// Listen creates a HealthServer and serves it on addr in the background.
func Listen(addr string, log zerolog.Logger) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	h := NewHealthServer(log)
	go h.Serve(lis)
	h.log.Info().Str("addr", lis.Addr().String()).Msg("Health server listening")
	return h, nil
}

// Serve blocks serving on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) {
	if err := h.server.Serve(lis); err != nil {
		h.log.Error().Err(err).Msg("Health server stopped")
	}
}

// SetServing flips both the overall and the relay service status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Stop shuts the server down.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
