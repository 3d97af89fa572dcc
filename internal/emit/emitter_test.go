package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nodesmith/internal/config"
)

func addDef() *config.NodeTypeDefinition {
	return &config.NodeTypeDefinition{
		Category: []string{"custom"},
		ID:       "my_add",
		Name:     "Add",
	}
}

func TestBlockAdderStub(t *testing.T) {
	e := New(nil)

	block, err := e.Block(addDef())
	require.NoError(t, err)

	t.Run("constructor declares two numeric inputs and one output", func(t *testing.T) {
		assert.Contains(t, block, "function my_add()")
		assert.Equal(t, 2, strings.Count(block, "this.addInput("))
		assert.Contains(t, block, `this.addInput("A", "number");`)
		assert.Contains(t, block, `this.addInput("B", "number");`)
		assert.Equal(t, 1, strings.Count(block, "this.addOutput("))
		assert.Contains(t, block, `this.addOutput("Sum", "number");`)
	})

	t.Run("title binds the display name", func(t *testing.T) {
		assert.Contains(t, block, `my_add.title = "Add";`)
	})

	t.Run("execution handler defaults absent inputs to zero and sums", func(t *testing.T) {
		assert.Contains(t, block, "a = 0;")
		assert.Contains(t, block, "b = 0;")
		assert.Contains(t, block, "this.setOutputData(0, a + b);")
	})

	t.Run("registration key is namespaced by the descriptor", func(t *testing.T) {
		assert.Contains(t, block, `LiteGraph.registerNodeType("custom/my_add", my_add);`)
	})
}

func TestBlockIsIdempotent(t *testing.T) {
	e := New(nil)
	def := addDef()

	first, err := e.Block(def)
	require.NoError(t, err)
	second, err := e.Block(def)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBlockMissingFields(t *testing.T) {
	e := New(nil)

	t.Run("missing id", func(t *testing.T) {
		block, err := e.Block(&config.NodeTypeDefinition{Name: "Add"})
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "id", missing.Field)
		assert.Empty(t, block)
	})

	t.Run("missing name", func(t *testing.T) {
		block, err := e.Block(&config.NodeTypeDefinition{ID: "my_add"})
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "name", missing.Field)
		assert.Equal(t, "my_add", missing.TypeID)
		assert.Empty(t, block)
	})

	t.Run("nil descriptor", func(t *testing.T) {
		block, err := e.Block(nil)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Empty(t, block)
	})
}

func TestBlocksPreserveOrderWithoutCrossContamination(t *testing.T) {
	e := New(nil)
	defs := []*config.NodeTypeDefinition{
		{Category: []string{"custom"}, ID: "my_add", Name: "Add"},
		{Category: []string{"custom"}, ID: "other_add", Name: "Other Add"},
	}

	var blocks []string
	for block, err := range e.Blocks(defs) {
		require.NoError(t, err)
		blocks = append(blocks, block)
	}

	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], `"custom/my_add"`)
	assert.Contains(t, blocks[0], `"Add"`)
	assert.NotContains(t, blocks[0], "other_add")
	assert.Contains(t, blocks[1], `"custom/other_add"`)
	assert.Contains(t, blocks[1], `"Other Add"`)
	assert.NotContains(t, blocks[1], `"custom/my_add"`)
}

func TestBlocksStopAtFirstFailure(t *testing.T) {
	e := New(nil)
	defs := []*config.NodeTypeDefinition{
		{Category: []string{"custom"}, ID: "my_add", Name: "Add"},
		{Category: []string{"custom"}, Name: "Broken"},
		{Category: []string{"custom"}, ID: "never", Name: "Never"},
	}

	var blocks []string
	var errs []error
	for block, err := range e.Blocks(defs) {
		blocks = append(blocks, block)
		errs = append(errs, err)
	}

	require.Len(t, blocks, 2)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Empty(t, blocks[1])
}

func TestBundle(t *testing.T) {
	e := New(nil)

	t.Run("concatenates blocks in input order", func(t *testing.T) {
		bundle, err := e.Bundle([]*config.NodeTypeDefinition{
			{Category: []string{"custom"}, ID: "first", Name: "First"},
			{Category: []string{"custom"}, ID: "second", Name: "Second"},
		})
		require.NoError(t, err)
		assert.Less(t, strings.Index(bundle, "custom/first"), strings.Index(bundle, "custom/second"))
	})

	t.Run("aborts on a failing descriptor", func(t *testing.T) {
		bundle, err := e.Bundle([]*config.NodeTypeDefinition{
			{Category: []string{"custom"}, ID: "ok", Name: "OK"},
			{},
		})
		assert.Error(t, err)
		assert.Empty(t, bundle)
	})

	t.Run("empty input yields empty bundle", func(t *testing.T) {
		bundle, err := e.Bundle(nil)
		require.NoError(t, err)
		assert.Empty(t, bundle)
	})
}

func TestRenderPins(t *testing.T) {
	def := &config.NodeTypeDefinition{
		Category: []string{"math"},
		ID:       "binop",
		Name:     "Binary Operation",
		Pins: []*config.PinDefinition{
			{ID: "a", Label: "A", Direction: config.DirIn, TypeID: "number"},
			{ID: "b", Label: "B", Direction: config.DirIn, TypeID: "number"},
			{ID: "res", Label: "Result", Direction: config.DirOut, TypeID: "number"},
		},
	}

	block, err := New(RenderPins).Block(def)
	require.NoError(t, err)

	assert.Contains(t, block, `this.addInput("A", "number");`)
	assert.Contains(t, block, `this.addInput("B", "number");`)
	assert.Contains(t, block, `this.addOutput("Result", "number");`)
	assert.Contains(t, block, `binop.title = "Binary Operation";`)
	assert.Contains(t, block, `LiteGraph.registerNodeType("math/binop", binop);`)
	assert.NotContains(t, block, "onExecute")
}
