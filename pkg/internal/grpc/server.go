package grpc

import (
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "takeaways.Content"

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	server.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	server.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return server
}

// MarkServing flips the health status once the service can take traffic.
func (v *App) MarkServing() {
	v.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	v.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (v *App) Serve(listener net.Listener) error {
	return v.srv.Serve(listener)
}

func (v *App) Listen() {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
	}

	if err := v.Serve(listener); err != nil {
		log.Error().Err(err).Msg("The grpc server stopped with an error...")
	}
}

// Stop reports NOT_SERVING to every watcher and stops the server.
func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
