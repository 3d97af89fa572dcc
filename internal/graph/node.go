package graph

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/registry"
)

// Endpoint names one pin of one node, the "<node>.<pin>" form used in
// graph files and shell commands.
type Endpoint struct {
	Node string
	Pin  string
}

// String returns the canonical "<node>.<pin>" form.
func (e Endpoint) String() string {
	return e.Node + "." + e.Pin
}

// ParseEndpoint splits a "<node>.<pin>" reference into its parts.
func ParseEndpoint(s string) (Endpoint, error) {
	node, pin, ok := strings.Cut(s, ".")
	if !ok || node == "" || pin == "" {
		return Endpoint{}, fmt.Errorf("malformed endpoint %q: expected '<node>.<pin>'", s)
	}
	return Endpoint{Node: node, Pin: pin}, nil
}

// State represents the execution state of a node during a run.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies.
	Pending State = iota
	// Running indicates a worker is currently executing the node.
	Running
	// Done indicates the node completed successfully.
	Done
	// Failed indicates the node failed or was skipped.
	Failed
)

// Node is a single vertex in the graph: one live instance of a node type.
//
// Structure fields (name, definition, connections) are guarded by the owning
// Graph's mutex. Execution state is managed atomically so the executor's
// workers can update it without taking the graph lock.
type Node struct {
	// Name is the unique instance name from the configuration.
	Name string
	// Def is the node type definition this instance was created from.
	Def *config.NodeTypeDefinition
	// Config holds the raw instance block, including argument expressions.
	Config *config.NodeInstance

	// connections maps a pin id to the remote endpoints wired to it, for
	// both input and output pins.
	connections map[string][]Endpoint

	// Error stores any error that occurred during the node's execution.
	Error error
	// Output stores the node's computed output pin values for downstream use.
	Output registry.PinValues

	// depCount counts unmet dependencies, decremented by the executor.
	depCount atomic.Int32
	// state is the node's current execution state, managed atomically.
	state atomic.Int32
	// skipOnce ensures a node is marked as skipped exactly once.
	skipOnce sync.Once
}

// SetDepCount stores the initial number of unmet dependencies.
func (n *Node) SetDepCount(count int32) {
	n.depCount.Store(count)
}

// DepCount atomically returns the current number of unmet dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// DecrementDepCount atomically decrements the dependency counter and
// returns the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// GetState atomically retrieves the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// Skip marks a node as failed and releases its WaitGroup slot, exactly
// once. It returns true when this call was the one that skipped the node.
func (n *Node) Skip(err error, wg *sync.WaitGroup) bool {
	var wasSkipped bool
	n.skipOnce.Do(func() {
		n.SetState(Failed)
		n.Error = err
		wg.Done()
		wasSkipped = true
	})
	return wasSkipped
}

// InputPins returns the ids of the node's input pins in declaration order.
func (n *Node) InputPins() []string {
	var ids []string
	for _, p := range n.Def.InputPins() {
		ids = append(ids, p.ID)
	}
	return ids
}

// OutputPins returns the ids of the node's output pins in declaration order.
func (n *Node) OutputPins() []string {
	var ids []string
	for _, p := range n.Def.OutputPins() {
		ids = append(ids, p.ID)
	}
	return ids
}
