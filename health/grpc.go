package health

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name readyz checks are reported under on the gRPC
// health service. Empty-string service name is the overall server status
// per the gRPC health-checking protocol; we set both.
const ServiceName = "parkflow.parking.Allocator"

// GRPCServer wraps grpc/health's reference implementation and exposes the
// one operation the service shell needs: flip the reported status when
// readiness changes.
type GRPCServer struct {
	inner *health.Server
}

// NewGRPCServer builds a health server in NOT_SERVING state and registers
// it against srv.
func NewGRPCServer(srv *grpc.Server) *GRPCServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, h)
	return &GRPCServer{inner: h}
}

// SetServing flips both the overall and named service status.
func (g *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.inner.SetServingStatus("", status)
	g.inner.SetServingStatus(ServiceName, status)
}
