package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/config"
)

const manifestSrc = `
node_type "math" "binop" {
  name        = "Binary Operation"
  description = "Applies an arithmetic operator to two inputs."

  lifecycle {
    calc = "CalcBinop"
  }

  property "operator_name" {
    type    = string
    default = "add"
    choices = ["add", "sub", "mul", "div"]
  }

  pin "a" {
    label     = "A"
    direction = "in"
    type      = "number"
  }

  pin "b" {
    label     = "B"
    direction = "in"
    type      = "number"
  }

  pin "res" {
    label     = "Result"
    direction = "out"
    type      = "number"
  }
}
`

const graphSrc = `
node "a1" "math/binop" {
  arguments {
    operator_name = "mul"
  }
}

connect {
  from = "v1.out"
  to   = "a1.a"
}
`

func writeConfig(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeConfig(t, "math.hcl", manifestSrc)

	model, converter, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, converter)

	def, ok := model.NodeTypes["math/binop"]
	require.True(t, ok)
	assert.Equal(t, []string{"math"}, def.Category)
	assert.Equal(t, "binop", def.ID)
	assert.Equal(t, "Binary Operation", def.Name)
	assert.Equal(t, "math/binop", def.RegistrationKey())
	require.NotNil(t, def.Lifecycle)
	assert.Equal(t, "CalcBinop", def.Lifecycle.Calc)

	prop, ok := def.Properties["operator_name"]
	require.True(t, ok)
	assert.True(t, prop.Type.Equals(cty.String))
	assert.True(t, prop.Optional)
	require.NotNil(t, prop.Default)
	assert.Equal(t, "add", prop.Default.AsString())
	assert.Equal(t, []string{"add", "sub", "mul", "div"}, prop.Choices)

	require.Len(t, def.Pins, 3)
	assert.Equal(t, config.DirIn, def.Pins[0].Direction)
	assert.Equal(t, "A", def.Pins[0].Label)
	assert.Equal(t, config.DirOut, def.Pins[2].Direction)
	assert.Len(t, def.InputPins(), 2)
	assert.Len(t, def.OutputPins(), 1)
}

func TestLoadGraph(t *testing.T) {
	path := writeConfig(t, "graph.hcl", graphSrc)

	model, _, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, model.Graph.Nodes, 1)
	n := model.Graph.Nodes[0]
	assert.Equal(t, "a1", n.Name)
	assert.Equal(t, "math/binop", n.TypeID)

	expr, ok := n.Arguments["operator_name"]
	require.True(t, ok)
	val, diags := expr.Value(nil)
	require.False(t, diags.HasErrors())
	assert.Equal(t, "mul", val.AsString())

	require.Len(t, model.Graph.Connections, 1)
	assert.Equal(t, "v1.out", model.Graph.Connections[0].From)
	assert.Equal(t, "a1.a", model.Graph.Connections[0].To)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad pin direction", func(t *testing.T) {
		path := writeConfig(t, "bad.hcl", `
node_type "math" "broken" {
  name = "Broken"
  pin "x" {
    direction = "sideways"
  }
}
`)
		_, _, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "direction must be 'in' or 'out'")
	})

	t.Run("duplicate node type across files", func(t *testing.T) {
		first := writeConfig(t, "a.hcl", `
node_type "math" "dup" {
  name = "Dup"
}
`)
		second := writeConfig(t, "b.hcl", `
node_type "math" "dup" {
  name = "Dup Again"
}
`)
		_, _, err := NewLoader().Load(context.Background(), first, second)
		assert.ErrorContains(t, err, `duplicate node type "math/dup"`)
	})

	t.Run("unparseable file", func(t *testing.T) {
		path := writeConfig(t, "syntax.hcl", `node_type "math" {`)
		_, _, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})
}
