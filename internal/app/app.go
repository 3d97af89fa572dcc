package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/emit"
	"github.com/vk/nodesmith/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	config     *config.Model
	converter  config.Converter
	emitter    *emit.Emitter
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Merge all configuration paths into a single collection for the loader.
	var configPaths []string
	if appConfig.TypesPath != "" {
		configPaths = append(configPaths, appConfig.TypesPath)
	}
	if appConfig.GraphPath != "" {
		configPaths = append(configPaths, appConfig.GraphPath)
	}

	// Load all configuration into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, configPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the registry with Go calc handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Populate the registry's definitions from the loaded config model.
	reg.PopulateDefinitionsFromModel(cfgModel)
	logger.Debug("Registry definitions populated from config model.")

	// Validate the integrity of the registry. A mismatch between code and
	// config is a programmer error, so we panic.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		config:    cfgModel,
		converter: converter,
		emitter:   emit.New(nil),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// sortedDefinitions returns the registered node type definitions ordered by
// registration key, so emitted bundles are deterministic.
func (a *App) sortedDefinitions() []*config.NodeTypeDefinition {
	keys := make([]string, 0, len(a.registry.DefinitionRegistry))
	for key := range a.registry.DefinitionRegistry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	defs := make([]*config.NodeTypeDefinition, 0, len(keys))
	for _, key := range keys {
		defs = append(defs, a.registry.DefinitionRegistry[key])
	}
	return defs
}

// EmitBundle renders the JS registration bundle for all registered node
// types, using the pin-driven renderer for types that declare pins and the
// fixed adder stub for bare descriptors.
func (a *App) EmitBundle() (string, error) {
	e := emit.New(func(def *config.NodeTypeDefinition) (string, error) {
		if len(def.Pins) > 0 {
			return emit.RenderPins(def)
		}
		return emit.RenderAdderStub(def)
	})
	return e.Bundle(a.sortedDefinitions())
}
