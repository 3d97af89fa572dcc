package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/executor"
	"github.com/vk/nodesmith/internal/graph"
)

func (s *Shell) cmdTypes() error {
	keys := make([]string, 0, len(s.registry.DefinitionRegistry))
	for key := range s.registry.DefinitionRegistry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(s.w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tPROPERTIES\tPINS")
	for _, key := range keys {
		def := s.registry.DefinitionRegistry[key]

		props := make([]string, 0, len(def.Properties))
		for name := range def.Properties {
			props = append(props, name)
		}
		sort.Strings(props)

		pins := make([]string, 0, len(def.Pins))
		for _, p := range def.Pins {
			pins = append(pins, fmt.Sprintf("%s(%s)", p.ID, p.Direction))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, def.Name, strings.Join(props, ","), strings.Join(pins, ","))
	}
	return tw.Flush()
}

func (s *Shell) cmdNodes() error {
	tw := tabwriter.NewWriter(s.w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tTYPE")
	for _, n := range s.model.Graph.Nodes {
		fmt.Fprintf(tw, "%s\t%s\n", n.Name, n.TypeID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, c := range s.model.Graph.Connections {
		fmt.Fprintf(s.w, "  %s -> %s\n", c.From, c.To)
	}
	return nil
}

func (s *Shell) cmdCreate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create <name> <type_key> [property=value ...]")
	}
	name, typeKey := args[0], args[1]

	if s.registry.Definition(typeKey) == nil {
		return fmt.Errorf("unknown node type %q", typeKey)
	}
	for _, n := range s.model.Graph.Nodes {
		if n.Name == name {
			return fmt.Errorf("node %q already defined", name)
		}
	}

	arguments := make(map[string]hcl.Expression)
	for _, pair := range args[2:] {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("malformed argument %q: expected property=value", pair)
		}
		arguments[key] = hcl.StaticExpr(literalValue(raw), hcl.Range{Filename: "shell"})
	}

	s.model.Graph.Nodes = append(s.model.Graph.Nodes, &config.NodeInstance{
		TypeID:    typeKey,
		Name:      name,
		Arguments: arguments,
	})
	fmt.Fprintf(s.w, "created %s (%s)\n", name, typeKey)
	return nil
}

// literalValue interprets a shell argument as a number, bool, or string.
func literalValue(raw string) cty.Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return cty.NumberFloatVal(f)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return cty.BoolVal(b)
	}
	return cty.StringVal(raw)
}

func (s *Shell) cmdConnect(args []string) error {
	from, to, err := endpointArgs(args, "connect")
	if err != nil {
		return err
	}
	// Validate eagerly on a throwaway graph so bad wiring is reported now,
	// not at the next evaluate.
	trial := &config.Model{
		NodeTypes: s.model.NodeTypes,
		Graph: &config.Graph{
			Nodes: s.model.Graph.Nodes,
			Connections: append(append([]*config.Connection{}, s.model.Graph.Connections...), &config.Connection{
				From: from.String(),
				To:   to.String(),
			}),
		},
	}
	if _, err := graph.Build(context.Background(), trial, s.registry); err != nil {
		return err
	}

	s.model.Graph.Connections = append(s.model.Graph.Connections, &config.Connection{
		From: from.String(),
		To:   to.String(),
	})
	fmt.Fprintf(s.w, "connected %s -> %s\n", from, to)
	return nil
}

func (s *Shell) cmdDisconnect(args []string) error {
	from, to, err := endpointArgs(args, "disconnect")
	if err != nil {
		return err
	}
	conns := s.model.Graph.Connections
	for i, c := range conns {
		if c.From == from.String() && c.To == to.String() {
			s.model.Graph.Connections = append(conns[:i], conns[i+1:]...)
			fmt.Fprintf(s.w, "disconnected %s -> %s\n", from, to)
			return nil
		}
	}
	return fmt.Errorf("connection %s -> %s does not exist", from, to)
}

func endpointArgs(args []string, verb string) (graph.Endpoint, graph.Endpoint, error) {
	if len(args) != 2 {
		return graph.Endpoint{}, graph.Endpoint{}, fmt.Errorf("usage: %s <node>.<pin> <node>.<pin>", verb)
	}
	from, err := graph.ParseEndpoint(args[0])
	if err != nil {
		return graph.Endpoint{}, graph.Endpoint{}, err
	}
	to, err := graph.ParseEndpoint(args[1])
	if err != nil {
		return graph.Endpoint{}, graph.Endpoint{}, err
	}
	return from, to, nil
}

func (s *Shell) cmdEvaluate(ctx context.Context) error {
	g, err := graph.Build(ctx, s.model, s.registry)
	if err != nil {
		return err
	}
	if g.Len() == 0 {
		fmt.Fprintln(s.w, "graph is empty")
		return nil
	}

	exec := executor.New(g, s.workers, s.registry, s.converter)
	if err := exec.Run(ctx); err != nil {
		return err
	}

	results := exec.Results()
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pins := results[name]
		pinIDs := make([]string, 0, len(pins))
		for pin := range pins {
			pinIDs = append(pinIDs, pin)
		}
		sort.Strings(pinIDs)
		for _, pin := range pinIDs {
			fmt.Fprintf(s.w, "%s.%s = %s\n", name, pin, formatValue(pins[pin]))
		}
	}
	return nil
}

func formatValue(val cty.Value) string {
	if val.IsNull() || !val.IsKnown() {
		return "null"
	}
	switch val.Type() {
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case cty.String:
		return val.AsString()
	default:
		return val.GoString()
	}
}

func (s *Shell) cmdEmit() error {
	bundle, err := s.emitBundle()
	if err != nil {
		return err
	}
	fmt.Fprint(s.w, bundle)
	return nil
}
