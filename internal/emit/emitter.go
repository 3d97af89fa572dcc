package emit

import (
	"fmt"
	"iter"
	"strings"

	"github.com/vk/nodesmith/internal/config"
)

// MissingFieldError reports a definition that lacks a field the emitter
// cannot work without. No partial block is produced for such a definition.
type MissingFieldError struct {
	Field  string
	TypeID string
}

func (e *MissingFieldError) Error() string {
	if e.TypeID == "" {
		return fmt.Sprintf("node type definition is missing required field %q", e.Field)
	}
	return fmt.Sprintf("node type %q is missing required field %q", e.TypeID, e.Field)
}

// Renderer maps a single node type definition to its filled text block.
// Implementations must be deterministic: the same definition always yields
// the same block.
type Renderer func(def *config.NodeTypeDefinition) (string, error)

// Emitter turns an ordered sequence of node type definitions into the
// corresponding sequence of host-editor source blocks.
type Emitter struct {
	render Renderer
}

// New creates an emitter using the given renderer. A nil renderer selects
// RenderAdderStub, the fixed two-input adder block.
func New(render Renderer) *Emitter {
	if render == nil {
		render = RenderAdderStub
	}
	return &Emitter{render: render}
}

// Block emits the text block for a single definition. It validates the
// required fields before rendering, so a failed definition produces no
// output at all.
func (e *Emitter) Block(def *config.NodeTypeDefinition) (string, error) {
	if def == nil {
		return "", &MissingFieldError{Field: "id"}
	}
	if def.ID == "" {
		return "", &MissingFieldError{Field: "id", TypeID: def.Name}
	}
	if def.Name == "" {
		return "", &MissingFieldError{Field: "name", TypeID: def.ID}
	}
	return e.render(def)
}

// Blocks returns a lazy, finite sequence of text blocks, one per definition,
// in input order. Iteration stops at the first failing definition, yielding
// its error with an empty block.
func (e *Emitter) Blocks(defs []*config.NodeTypeDefinition) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, def := range defs {
			block, err := e.Block(def)
			if !yield(block, err) || err != nil {
				return
			}
		}
	}
}

// Bundle concatenates the blocks for all definitions into a single artifact,
// aborting on the first failing definition.
func (e *Emitter) Bundle(defs []*config.NodeTypeDefinition) (string, error) {
	var sb strings.Builder
	for block, err := range e.Blocks(defs) {
		if err != nil {
			return "", err
		}
		sb.WriteString(block)
	}
	return sb.String(), nil
}
