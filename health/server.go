// Package health exposes the service shell's liveness and readiness
// surfaces (SPEC_FULL.md §10.4): an HTTP pair for load balancers and a
// gRPC health service for orchestrators that speak the standard gRPC
// health-checking protocol.
package health

import (
	"net/http"
)

// ReadyFunc reports whether the service is ready to accept intake
// traffic — in practice, whether the topology has finished loading and
// the pubsub subscriber is attached. A nil ReadyFunc is treated as always
// ready.
type ReadyFunc func() bool

// Register mounts /healthz and /readyz on mux. /healthz never depends on
// anything else being up; /readyz defers to ready.
func Register(mux *http.ServeMux, ready ReadyFunc) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
}
