package app

import (
	"context"
	"fmt"

	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/executor"
	"github.com/vk/nodesmith/internal/graph"
	"github.com/vk/nodesmith/internal/registry"
	"github.com/vk/nodesmith/internal/shell"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.ListenPort > 0 {
		a.startBridgeServer(ctx, appConfig)
		defer a.closeBridgeServer(ctx)
	}

	if appConfig.Shell {
		sh := shell.New(a.outW, a.config, a.registry, a.converter, a.EmitBundle, appConfig.WorkerCount)
		return sh.Run(ctx)
	}

	return a.evaluate(ctx, appConfig.WorkerCount)
}

// evaluate builds a fresh graph from the loaded model and runs it to
// completion. Each call is an independent run.
func (a *App) evaluate(ctx context.Context, workers int) error {
	a.logger.Debug("Building node graph from config model...")
	g, err := graph.Build(ctx, a.config, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build node graph: %w", err)
	}
	a.logger.Debug("Node graph built.", "node_count", g.Len())

	if g.Len() == 0 {
		a.logger.Warn("No nodes found in graph, evaluation not required.")
		return nil
	}

	a.logger.Info("🚀 Starting concurrent evaluation...")
	exec := executor.New(g, workers, a.registry, a.converter)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	a.logger.Info("🏁 Evaluation finished.")
	return nil
}

// evaluateForResults runs a fresh graph and returns the per-node output pin
// values, for the bridge's evaluate event.
func (a *App) evaluateForResults(ctx context.Context, workers int) (map[string]registry.PinValues, error) {
	g, err := graph.Build(ctx, a.config, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build node graph: %w", err)
	}
	exec := executor.New(g, workers, a.registry, a.converter)
	if err := exec.Run(ctx); err != nil {
		return nil, err
	}
	return exec.Results(), nil
}
