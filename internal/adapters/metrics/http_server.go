package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

// HTTPServer exposes the registry over HTTP for Prometheus scrapes
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the scrape endpoint from the metrics config.
// Returns nil when metrics are disabled or the registry was never
// initialized.
func NewHTTPServer(cfg *config.MetricsConfig) *HTTPServer {
	if cfg == nil || !cfg.Enabled || Registry == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))

	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves scrapes in a background goroutine. Errors other than a
// clean shutdown land in errCh.
func (s *HTTPServer) Start(errCh chan<- error) {
	if s == nil {
		return
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if errCh != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}
	}()
}

// Shutdown stops accepting scrapes and drains in-flight requests
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
