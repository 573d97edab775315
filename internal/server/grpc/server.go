// Package grpc exposes the backend services over the hand-written
// JSON-over-gRPC contract in internal/rpc.
package grpc

import (
	"context"
	"net"

	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/sachwave/sachwave/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	rpc.UnimplementedBackendServer
	address   string
	users     *services.UserService
	profiles  *services.ProfileService
	content   *services.ContentService
	messages  *services.MessageService
	media     *services.MediaService
	logger    logging.Logger
	version   string
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger,
	us *services.UserService, ps *services.ProfileService, cs *services.ContentService,
	ms *services.MessageService, media *services.MediaService,
	secretKey, version string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		profiles:  ps,
		content:   cs,
		messages:  ms,
		media:     media,
		version:   version,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers service
	rpc.RegisterBackendServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
