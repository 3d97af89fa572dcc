package graph

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/datatype"
)

// Graph is a collection of node instances and the connections between their
// pins. All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map and every node's connections.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by instance name.
	nodes map[string]*Node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode adds a live instance of the given definition to the graph. The
// instance name must be unique.
func (g *Graph) AddNode(cfg *config.NodeInstance, def *config.NodeTypeDefinition) (*Node, error) {
	if def == nil {
		return nil, fmt.Errorf("node '%s': unknown node type '%s'", cfg.Name, cfg.TypeID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, exists := g.nodes[cfg.Name]; exists {
		return nil, fmt.Errorf("node '%s' already defined", cfg.Name)
	}

	n := &Node{
		Name:        cfg.Name,
		Def:         def,
		Config:      cfg,
		connections: make(map[string][]Endpoint),
	}
	g.nodes[cfg.Name] = n
	return n, nil
}

// Node returns the node with the given instance name.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// Names returns all instance names in sorted order.
func (g *Graph) Names() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Connect wires a source pin to a target pin. The source must be an output
// pin, the target an input pin, their data types must be compatible, and
// the edge must not already exist.
func (g *Graph) Connect(from, to Endpoint) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	srcNode, srcPin, err := g.resolve(from, config.DirOut, "source")
	if err != nil {
		return err
	}
	dstNode, dstPin, err := g.resolve(to, config.DirIn, "target")
	if err != nil {
		return err
	}

	srcType := datatype.FromID(srcPin.TypeID)
	dstType := datatype.FromID(dstPin.TypeID)
	if !srcType.CanTarget(dstType) {
		return fmt.Errorf("cannot connect %s to %s: type '%s' is incompatible with '%s'",
			from, to, srcPin.TypeID, dstPin.TypeID)
	}

	if slices.Contains(srcNode.connections[from.Pin], to) {
		return fmt.Errorf("connection %s -> %s already exists", from, to)
	}

	srcNode.connections[from.Pin] = append(srcNode.connections[from.Pin], to)
	dstNode.connections[to.Pin] = append(dstNode.connections[to.Pin], from)
	return nil
}

// Disconnect removes a previously established connection.
func (g *Graph) Disconnect(from, to Endpoint) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	srcNode, ok := g.nodes[from.Node]
	if !ok {
		return fmt.Errorf("source node not found: %s", from.Node)
	}
	dstNode, ok := g.nodes[to.Node]
	if !ok {
		return fmt.Errorf("target node not found: %s", to.Node)
	}

	srcIdx := slices.Index(srcNode.connections[from.Pin], to)
	dstIdx := slices.Index(dstNode.connections[to.Pin], from)
	if srcIdx < 0 || dstIdx < 0 {
		return fmt.Errorf("connection %s -> %s does not exist", from, to)
	}

	srcNode.connections[from.Pin] = slices.Delete(srcNode.connections[from.Pin], srcIdx, srcIdx+1)
	dstNode.connections[to.Pin] = slices.Delete(dstNode.connections[to.Pin], dstIdx, dstIdx+1)
	return nil
}

// Sources returns, for each input pin of the named node, the remote output
// endpoints feeding it.
func (g *Graph) Sources(name string) (map[string][]Endpoint, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}

	sources := make(map[string][]Endpoint)
	for _, pin := range n.Def.InputPins() {
		if conns := n.connections[pin.ID]; len(conns) > 0 {
			sources[pin.ID] = slices.Clone(conns)
		}
	}
	return sources, nil
}

// Dependencies returns the names of the nodes the given node reads from,
// deduplicated.
func (g *Graph) Dependencies(name string) ([]string, error) {
	return g.neighbors(name, config.DirIn)
}

// Dependents returns the names of the nodes that read from the given node,
// deduplicated.
func (g *Graph) Dependents(name string) ([]string, error) {
	return g.neighbors(name, config.DirOut)
}

func (g *Graph) neighbors(name string, dir config.Direction) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, pin := range n.Def.Pins {
		if pin.Direction != dir {
			continue
		}
		for _, remote := range n.connections[pin.ID] {
			if _, dup := seen[remote.Node]; dup {
				continue
			}
			seen[remote.Node] = struct{}{}
			names = append(names, remote.Node)
		}
	}
	sort.Strings(names)
	return names, nil
}

// resolve looks up an endpoint and checks that its pin has the expected
// direction. Callers must hold the graph lock.
func (g *Graph) resolve(ep Endpoint, want config.Direction, role string) (*Node, *config.PinDefinition, error) {
	n, ok := g.nodes[ep.Node]
	if !ok {
		return nil, nil, fmt.Errorf("%s node not found: %s", role, ep.Node)
	}
	pin := n.Def.Pin(ep.Pin)
	if pin == nil {
		return nil, nil, fmt.Errorf("%s pin not found: %s", role, ep)
	}
	if pin.Direction != want {
		return nil, nil, fmt.Errorf("%s pin %s must have direction '%s', got '%s'", role, ep, want, pin.Direction)
	}
	return n, pin, nil
}
