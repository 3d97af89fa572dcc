package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/graph"
	"github.com/vk/nodesmith/internal/registry"
)

// Executor runs every node in a graph exactly once, in dependency order.
type Executor struct {
	Graph *graph.Graph
	// RunID identifies this evaluation run in logs and bridge events.
	RunID uuid.UUID

	numWorkers int
	registry   *registry.Registry
	converter  config.Converter
	wg         sync.WaitGroup
}

// New creates an executor for the given graph.
func New(g *graph.Graph, numWorkers int, r *registry.Registry, converter config.Converter) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{
		Graph:      g,
		RunID:      uuid.New(),
		numWorkers: numWorkers,
		registry:   r,
		converter:  converter,
	}
}

// Run executes the entire graph concurrently and returns an error if any
// node fails. It respects the cancellation signal from the provided context.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("runID", e.RunID.String())
	ctx = ctxlog.WithLogger(ctx, logger)

	names := e.Graph.Names()
	readyChan := make(chan *graph.Node, len(names))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Debug("Initializing executor, finding root nodes...")
	rootNodeCount := 0
	for _, name := range names {
		n, _ := e.Graph.Node(name)
		if n.DepCount() == 0 {
			logger.Debug("Found root node.", "node", name)
			readyChan <- n
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(names))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	logger.Info("Waiting for all nodes to complete...")
	e.wg.Wait()
	logger.Info("All nodes completed.")
	close(readyChan)

	var failedNodes []string
	var rootCauseError error
	for _, name := range names {
		n, _ := e.Graph.Node(name)
		if n.GetState() != graph.Failed {
			continue
		}
		logger.Error("Node failed execution.", "node", name, "error", n.Error)
		// A "skipped" error is a symptom, not a cause.
		if n.Error != nil && !strings.HasPrefix(n.Error.Error(), "skipped") && !errors.Is(n.Error, context.Canceled) {
			failedNodes = append(failedNodes, name)
			if rootCauseError == nil {
				rootCauseError = n.Error
			}
		}
	}

	if rootCauseError != nil {
		return fmt.Errorf("evaluation failed for %s: %w", strings.Join(failedNodes, ", "), rootCauseError)
	}

	return nil
}

// Results returns each completed node's output pin values, keyed by
// instance name. Call after Run returns.
func (e *Executor) Results() map[string]registry.PinValues {
	results := make(map[string]registry.PinValues)
	for _, name := range e.Graph.Names() {
		n, _ := e.Graph.Node(name)
		if n.GetState() == graph.Done && n.Output != nil {
			results[name] = n.Output
		}
	}
	return results
}

// skipDependents recursively marks all downstream nodes as failed and
// releases their WaitGroup slots.
func (e *Executor) skipDependents(ctx context.Context, n *graph.Node) {
	logger := ctxlog.FromContext(ctx)
	dependents, err := e.Graph.Dependents(n.Name)
	if err != nil {
		logger.Error("Failed to get dependents for failed node.", "node", n.Name, "error", err)
		return
	}
	for _, name := range dependents {
		dependent, ok := e.Graph.Node(name)
		if !ok {
			continue
		}
		if dependent.Skip(fmt.Errorf("skipped due to upstream failure of '%s'", n.Name), &e.wg) {
			logger.Warn("Skipping dependent node due to upstream failure.", "node", name, "dependency", n.Name)
			e.skipDependents(ctx, dependent)
		}
	}
}
