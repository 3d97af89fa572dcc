package graph

import (
	"context"
	"fmt"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/registry"
)

// Build constructs a complete, validated node graph from a config model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	g := New()

	// First pass: create all node instances.
	for _, cfg := range model.Graph.Nodes {
		if _, err := g.AddNode(cfg, r.Definition(cfg.TypeID)); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: wire connections.
	for _, conn := range model.Graph.Connections {
		from, err := ParseEndpoint(conn.From)
		if err != nil {
			return nil, err
		}
		to, err := ParseEndpoint(conn.To)
		if err != nil {
			return nil, err
		}
		if err := g.Connect(from, to); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node wiring complete.")

	// Third pass: initialize dependency counters for the executor.
	for _, name := range g.Names() {
		deps, err := g.Dependencies(name)
		if err != nil {
			return nil, err
		}
		n, _ := g.Node(name)
		n.SetDepCount(int32(len(deps)))
	}
	logger.Debug("Build: Counter initialization complete.")

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating node graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Debug("Build: Graph construction successful.")
	return g, nil
}
