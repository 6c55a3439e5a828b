// Package grpc serves the shiftly.ops.v1.Operations service.
package grpc

import (
	"context"
	"net"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/services"
	"google.golang.org/grpc"
)

// Services are the domain services the handlers call.
type Services struct {
	Connections *services.ConnectionRegistry
	Inventory   *services.InventoryStore
	Sync        *services.SyncEngine
	SyncLogs    *services.SyncLogStore
	Scheduler   *services.Scheduler
	Broker      *queue.Broker
}

type GRPCServer struct {
	Services
	address   string
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		Services:  svc,
		address:   a,
		logger:    logging.ForModule(l, "grpc_server"),
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.correlationInterceptor, s.accessTokenInterceptor))
	opsapi.RegisterOperationsServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
