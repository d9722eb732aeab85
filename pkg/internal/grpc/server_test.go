package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func dialHealth(t *testing.T, app *App) healthpb.HealthClient {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	go func() {
		_ = app.Serve(listener)
	}()
	t.Cleanup(app.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	return resp.GetStatus()
}

func TestHealthStatus(t *testing.T) {
	app := NewGrpc()
	client := dialHealth(t, app)

	if status := checkStatus(t, client, ServiceName); status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Expected NOT_SERVING before startup, got %v", status)
	}

	app.MarkServing()
	for _, service := range []string{"", ServiceName} {
		if status := checkStatus(t, client, service); status != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("Expected SERVING for %q, got %v", service, status)
		}
	}
}
