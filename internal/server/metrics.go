// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HealthFunc reports whether the service can serve requests.
type HealthFunc func(ctx context.Context) error

// MetricsServer manages the Prometheus metrics HTTP server. It also answers
// health probes on /healthz.
type MetricsServer struct {
	server     *http.Server
	listener   net.Listener
	port       int
	endpoint   string
	collectors []prometheus.Collector
	health     HealthFunc
}

// NewMetricsServer creates a new metrics server instance. Port 0 picks a free
// port.
func NewMetricsServer(port int, endpoint string, health HealthFunc, custom ...prometheus.Collector) *MetricsServer {
	return &MetricsServer{
		port:       port,
		endpoint:   endpoint,
		collectors: custom,
		health:     health,
	}
}

// Setup configures the metrics server and registers collectors.
// Go runtime and process metrics are always exposed next to the custom ones.
func (m *MetricsServer) Setup() error {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range m.collectors {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", m.handleHealth)

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.port),
		Handler: mux,
	}

	return nil
}

func (m *MetricsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if m.health != nil {
		if err := m.health(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Start binds the port and serves metrics in the background.
func (m *MetricsServer) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.server.Addr, err)
	}
	m.listener = listener

	go func() {
		logrus.Infof("metrics server listening on %s%s", listener.Addr(), m.endpoint)
		if err := m.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics server failed: %v", err)
		}
	}()
	return nil
}

// Port returns the bound port once started, else the configured one.
func (m *MetricsServer) Port() int {
	if m.listener == nil {
		return m.port
	}
	if addr, ok := m.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return m.port
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
