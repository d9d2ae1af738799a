package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"corri/internal/config"
	"corri/internal/factory"
	"corri/internal/inference"
	"corri/internal/logger"
	"corri/internal/observer"
	"corri/internal/service"
	"corri/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	gateway         inference.Gateway
	events          observer.Subject
	metrics         *observer.MetricsObserver
	registry        *prometheus.Registry
	analysisService service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithFactory(ctx, cfg, factory.NewGatewayFactory())
}

// NewContainerWithFactory builds the dependency graph with a custom gateway factory
func NewContainerWithFactory(ctx context.Context, cfg *config.Config, gf factory.GatewayFactory) (*Container, error) {
	gateway, err := gf.CreateGateway(ctx, cfg)
	switch {
	case errors.Is(err, factory.ErrMissingCredential):
		logger.WithField("credential", factory.CredentialName(cfg.Provider)).
			Warn("Inference credential not configured; analyze requests will fail until it is set")
		gateway = nil
	case err != nil:
		return nil, fmt.Errorf("failed to create inference gateway: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := observer.NewMetricsObserver(registry)
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	analysisService := service.NewAnalysisService(
		gateway,
		cfg.Provider,
		factory.CredentialName(cfg.Provider),
		events,
	)
	handler := transport.NewHandler(analysisService, cfg, registry)

	return &Container{
		config:          cfg,
		gateway:         gateway,
		events:          events,
		metrics:         metrics,
		registry:        registry,
		analysisService: analysisService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the in-process analysis counters
func (c *Container) Metrics() map[string]interface{} {
	return c.metrics.GetMetrics()
}

// Close releases the gateway client when it holds a connection
func (c *Container) Close() error {
	if closer, ok := c.gateway.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
