// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/ssargent/gsbgrid/pkg/api"
	"github.com/ssargent/gsbgrid/pkg/catalog"
	"github.com/ssargent/gsbgrid/pkg/config"
	"github.com/ssargent/gsbgrid/pkg/grid"
	"github.com/ssargent/gsbgrid/pkg/logging"
	"github.com/ssargent/gsbgrid/pkg/metrics"
)

// CatalogOpener opens the catalog stored in dir
type CatalogOpener func(dir string) (*catalog.Catalog, error)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *slog.Logger
	metrics       *metrics.Metrics
	catalogOpener CatalogOpener
}

// NewContainer creates a new dependency injection container. Nil arguments
// get defaults.
func NewContainer(cfg *config.Config, logger *slog.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Container{
		config:        cfg,
		logger:        logger,
		metrics:       metrics.NewMetrics(nil),
		catalogOpener: catalog.Open,
	}
}

// Config returns the effective configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the metrics registry wrapper
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// DecodeOptions wires the logger and metrics into the decoder
func (c *Container) DecodeOptions() []grid.Option {
	return []grid.Option{
		grid.WithLogger(c.logger),
		grid.WithObserver(c.metrics),
	}
}

// DecodeFile decodes path with the container's logger and metrics
func (c *Container) DecodeFile(path string) (*grid.GridFile, error) {
	g, err := grid.DecodeFile(path, c.DecodeOptions()...)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordWarnings(len(g.Warnings))
	return g, nil
}

// OpenCatalog opens the catalog in the configured data directory
func (c *Container) OpenCatalog() (*catalog.Catalog, error) {
	return c.catalogOpener(c.config.Catalog.DataDir)
}

// SetCatalogOpener allows overriding how the catalog is opened (for testing)
func (c *Container) SetCatalogOpener(opener CatalogOpener) {
	c.catalogOpener = opener
}

// NewServer creates an API server for g using the configured bind address
func (c *Container) NewServer(g *grid.GridFile, source string) *api.Server {
	return api.NewServer(g, api.ServerConfig{
		Bind:   c.config.Server.Bind,
		Port:   c.config.Server.Port,
		Source: source,
	}, c.metrics, c.logger)
}

// FlushMetrics writes the metrics textfile when one is configured
func (c *Container) FlushMetrics() error {
	if c.config.Metrics.Textfile == "" {
		return nil
	}
	c.logger.Debug("writing metrics textfile", "path", c.config.Metrics.Textfile)
	return c.metrics.WriteTextfile(c.config.Metrics.Textfile)
}
