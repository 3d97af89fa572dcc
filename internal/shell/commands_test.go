package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/config"
	nshcl "github.com/vk/nodesmith/internal/hcl"
	"github.com/vk/nodesmith/internal/registry"
	"github.com/vk/nodesmith/modules/math"
)

func shellDefs() map[string]*config.NodeTypeDefinition {
	constant := &config.NodeTypeDefinition{
		Category:  []string{"math"},
		ID:        "constant",
		Name:      "Constant",
		Lifecycle: &config.Lifecycle{Calc: "CalcConstant"},
		Properties: map[string]*config.PropertyDefinition{
			"value": {Name: "value", Type: cty.Number, Optional: true},
		},
		Pins: []*config.PinDefinition{
			{ID: "out", Label: "Output", Direction: config.DirOut, TypeID: "number"},
		},
	}
	binop := &config.NodeTypeDefinition{
		Category:  []string{"math"},
		ID:        "binop",
		Name:      "Binary Operation",
		Lifecycle: &config.Lifecycle{Calc: "CalcBinop"},
		Properties: map[string]*config.PropertyDefinition{
			"operator_name": {Name: "operator_name", Type: cty.String, Optional: true},
		},
		Pins: []*config.PinDefinition{
			{ID: "a", Label: "A", Direction: config.DirIn, TypeID: "number"},
			{ID: "b", Label: "B", Direction: config.DirIn, TypeID: "number"},
			{ID: "res", Label: "Result", Direction: config.DirOut, TypeID: "number"},
		},
	}
	return map[string]*config.NodeTypeDefinition{
		constant.RegistrationKey(): constant,
		binop.RegistrationKey():    binop,
	}
}

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	model := &config.Model{
		NodeTypes: shellDefs(),
		Graph:     &config.Graph{},
	}
	reg := registry.New()
	(&math.Module{}).Register(reg)
	reg.PopulateDefinitionsFromModel(model)

	var out bytes.Buffer
	emitBundle := func() (string, error) { return "// bundle\n", nil }
	return New(&out, model, reg, nshcl.NewConverter(), emitBundle, 2), &out
}

func run(t *testing.T, s *Shell, cmd string, args ...string) {
	t.Helper()
	require.NoError(t, s.dispatch(context.Background(), cmd, args))
}

func TestCmdTypes(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "types")

	assert.Contains(t, out.String(), "math/binop")
	assert.Contains(t, out.String(), "Binary Operation")
	assert.Contains(t, out.String(), "a(in)")
	assert.Contains(t, out.String(), "res(out)")
}

func TestCmdCreate(t *testing.T) {
	s, out := newTestShell(t)

	run(t, s, "create", "v1", "math/constant", "value=5")
	assert.Contains(t, out.String(), "created v1 (math/constant)")
	require.Len(t, s.model.Graph.Nodes, 1)

	val, diags := s.model.Graph.Nodes[0].Arguments["value"].Value(nil)
	require.False(t, diags.HasErrors())
	assert.True(t, val.RawEquals(cty.NumberFloatVal(5)))

	t.Run("duplicate name", func(t *testing.T) {
		err := s.dispatch(context.Background(), "create", []string{"v1", "math/constant"})
		assert.ErrorContains(t, err, "already defined")
	})

	t.Run("unknown type", func(t *testing.T) {
		err := s.dispatch(context.Background(), "create", []string{"v2", "math/ghost"})
		assert.ErrorContains(t, err, "unknown node type")
	})

	t.Run("malformed argument", func(t *testing.T) {
		err := s.dispatch(context.Background(), "create", []string{"v2", "math/constant", "value"})
		assert.ErrorContains(t, err, "expected property=value")
	})

	t.Run("too few arguments", func(t *testing.T) {
		err := s.dispatch(context.Background(), "create", []string{"v2"})
		assert.ErrorContains(t, err, "usage: create")
	})
}

func TestCmdConnectEvaluateDisconnect(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "create", "v1", "math/constant", "value=5")
	run(t, s, "create", "a1", "math/binop", "operator_name=add")

	t.Run("bad wiring is rejected eagerly", func(t *testing.T) {
		err := s.dispatch(context.Background(), "connect", []string{"v1.out", "a1.res"})
		assert.ErrorContains(t, err, "direction 'in'")
		assert.Empty(t, s.model.Graph.Connections)

		err = s.dispatch(context.Background(), "connect", []string{"dne.out", "a1.a"})
		assert.Error(t, err)
		assert.Empty(t, s.model.Graph.Connections)
	})

	run(t, s, "connect", "v1.out", "a1.a")
	assert.Contains(t, out.String(), "connected v1.out -> a1.a")
	require.Len(t, s.model.Graph.Connections, 1)

	t.Run("duplicate connection is rejected", func(t *testing.T) {
		err := s.dispatch(context.Background(), "connect", []string{"v1.out", "a1.a"})
		assert.ErrorContains(t, err, "already exists")
		assert.Len(t, s.model.Graph.Connections, 1)
	})

	t.Run("nodes lists instances and wiring", func(t *testing.T) {
		out.Reset()
		run(t, s, "nodes")
		assert.Contains(t, out.String(), "v1")
		assert.Contains(t, out.String(), "math/binop")
		assert.Contains(t, out.String(), "v1.out -> a1.a")
	})

	t.Run("evaluate prints sorted pin values", func(t *testing.T) {
		out.Reset()
		run(t, s, "evaluate")
		assert.Contains(t, out.String(), "a1.res = 5\n")
		assert.Contains(t, out.String(), "v1.out = 5\n")
	})

	t.Run("disconnect removes the edge", func(t *testing.T) {
		out.Reset()
		run(t, s, "disconnect", "v1.out", "a1.a")
		assert.Contains(t, out.String(), "disconnected v1.out -> a1.a")
		assert.Empty(t, s.model.Graph.Connections)

		err := s.dispatch(context.Background(), "disconnect", []string{"v1.out", "a1.a"})
		assert.ErrorContains(t, err, "does not exist")
	})
}

func TestCmdEvaluateEmptyGraph(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "evaluate")
	assert.Contains(t, out.String(), "graph is empty")
}

func TestCmdEmit(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "emit")
	assert.Equal(t, "// bundle\n", out.String())
}

func TestDispatchUnknownCommand(t *testing.T) {
	s, _ := newTestShell(t)
	err := s.dispatch(context.Background(), "frobnicate", nil)
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)
}
