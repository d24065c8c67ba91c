package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/diconfig/internal/ctxlog"
	"github.com/vk/diconfig/internal/document"
	"github.com/vk/diconfig/internal/inmemoryregistry"
	"github.com/vk/diconfig/internal/loader"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is a document file or a directory of fragment files.
	ConfigPath string
	// Namespace prefixes every registered service name when set.
	Namespace string
	LogFormat string
	LogLevel  string
	// Dump re-serializes the normalized configuration to the output
	// writer instead of only loading it.
	Dump bool
}

// App wires the document adapter, the normalization pipeline and the
// registry together for one invocation.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	adapter  document.Adapter
	registry *inmemoryregistry.Registry
	loader   *loader.Loader
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
func New(outW io.Writer, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	reg := inmemoryregistry.New()

	return &App{
		outW:     outW,
		logger:   logger,
		adapter:  document.NewYAML(),
		registry: reg,
		loader:   &loader.Loader{Registry: reg, Namespace: cfg.Namespace},
	}
}

// Registry returns the application's registry. This is primarily for
// testing and for hosts that consume the registered definitions.
func (a *App) Registry() *inmemoryregistry.Registry {
	return a.registry
}

// Run loads the configuration, registers its service definitions, and
// optionally dumps the normalized document back out.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	tree, err := a.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := a.Apply(ctx, tree); err != nil {
		return err
	}
	a.logger.Info("Configuration normalized.", "services", len(a.registry.Definitions()))

	if cfg.Dump {
		out, err := a.Dump(tree)
		if err != nil {
			return err
		}
		fmt.Fprint(a.outW, out)
	}
	return nil
}
