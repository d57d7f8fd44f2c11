package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/pushlogin/internal/api/grpc/middleware"
	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// ServiceName is reported by the health service alongside the overall status.
const ServiceName = "pushlogin.Agent"

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer serves grpc.health.v1 and reflection for the agent.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	addr   string
}

// NewGRPCServer creates a GRPCServer listening on addr. Health starts as
// NOT_SERVING until SetServing is called.
func NewGRPCServer(addr string, logger *logger.Logger, opts ...grpc.ServerOption) *GRPCServer {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		middleware.NewRecovery(logger),
		middleware.NewLogging(logger).HandleGRPC,
	))
	gs := grpc.NewServer(opts...)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &GRPCServer{server: gs, health: hs, addr: addr}
}

// SetServing flips the reported status of the agent.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Start starts serving on the configured address using the provided security layer.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.server.Serve(listener)
}

// Stop reports NOT_SERVING to watchers and gracefully stops the server.
func (s *GRPCServer) Stop(_ context.Context) error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}

// Address returns the configured listen address.
func (s *GRPCServer) Address() string {
	return s.addr
}
