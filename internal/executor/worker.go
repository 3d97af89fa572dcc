package executor

import (
	"context"

	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/graph"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *graph.Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range readyChan {
		workerLogger := logger.With("workerID", workerID, "node", n.Name)

		if ctx.Err() != nil {
			// Drain this node's dependents too: they will never be
			// decremented, so without skipping them Run would wait forever.
			if n.Skip(ctx.Err(), &e.wg) {
				e.skipDependents(ctx, n)
			}
			continue
		}

		workerLogger.Debug("Worker picked up node for execution.")
		n.SetState(graph.Running)

		if err := e.runNode(ctx, n); err != nil {
			workerLogger.Error("Node execution failed.", "error", err)
			n.SetState(graph.Failed)
			n.Error = err
			cancel()
			e.skipDependents(ctx, n)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Node execution succeeded.")
		n.SetState(graph.Done)

		dependents, err := e.Graph.Dependents(n.Name)
		if err != nil {
			workerLogger.Error("Failed to get dependents for completed node.", "error", err)
		} else {
			for _, name := range dependents {
				dependent, ok := e.Graph.Node(name)
				if !ok {
					continue
				}
				if dependent.DecrementDepCount() == 0 {
					workerLogger.Debug("Unlocking dependent node.", "dependent", name)
					readyChan <- dependent
				}
			}
		}

		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
