// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/schema"
)

// translatePropertyDefinition processes a single HCL property block,
// handling its default value and type parsing.
func translatePropertyDefinition(ctx context.Context, p *schema.PropertyDefinition, ownerID string) (*config.PropertyDefinition, error) {
	parsedType, err := typeExprToCtyType(ctx, p.Type)
	if err != nil {
		return nil, fmt.Errorf("in node type '%s', property '%s': %w", ownerID, p.Name, err)
	}

	var defaultVal *cty.Value
	var isOptional bool
	if p.Default != nil && !p.Default.IsNull() {
		// A default is only valid if it is convertible to the declared type.
		val, err := convertValue(*p.Default, parsedType)
		if err != nil {
			return nil, fmt.Errorf("in node type '%s', property '%s': invalid default: %w", ownerID, p.Name, err)
		}
		defaultVal = &val
		isOptional = true
	}

	return &config.PropertyDefinition{
		Name:        p.Name,
		Type:        parsedType,
		Description: p.Description,
		Default:     defaultVal,
		Optional:    isOptional,
		Choices:     p.Choices,
		Low:         p.Low,
		High:        p.High,
	}, nil
}

// translatePinDefinition validates the pin's direction keyword and fills
// defaults for label and type.
func translatePinDefinition(p *schema.PinDefinition, ownerID string) (*config.PinDefinition, error) {
	var dir config.Direction
	switch p.Direction {
	case "in":
		dir = config.DirIn
	case "out":
		dir = config.DirOut
	default:
		return nil, fmt.Errorf("in node type '%s', pin '%s': direction must be 'in' or 'out', got %q", ownerID, p.ID, p.Direction)
	}

	label := p.Label
	if label == "" {
		label = p.ID
	}
	typeID := p.Type
	if typeID == "" {
		typeID = "any"
	}

	return &config.PinDefinition{
		ID:        p.ID,
		Label:     label,
		Direction: dir,
		TypeID:    typeID,
	}, nil
}

// translateNodeType converts the HCL-specific node type schema into the
// agnostic model.
func (l *Loader) translateNodeType(ctx context.Context, s *schema.NodeTypeDefinition) (*config.NodeTypeDefinition, error) {
	def := &config.NodeTypeDefinition{
		Category:    strings.Split(s.Category, "/"),
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Properties:  make(map[string]*config.PropertyDefinition),
	}
	if s.Lifecycle != nil {
		def.Lifecycle = &config.Lifecycle{Calc: s.Lifecycle.Calc}
	}

	for _, p := range s.Properties {
		prop, err := translatePropertyDefinition(ctx, p, s.ID)
		if err != nil {
			return nil, err
		}
		if _, exists := def.Properties[p.Name]; exists {
			return nil, fmt.Errorf("in node type '%s': duplicate property '%s'", s.ID, p.Name)
		}
		def.Properties[p.Name] = prop
	}

	for _, p := range s.Pins {
		pin, err := translatePinDefinition(p, s.ID)
		if err != nil {
			return nil, err
		}
		if def.Pin(pin.ID) != nil {
			return nil, fmt.Errorf("in node type '%s': duplicate pin '%s'", s.ID, pin.ID)
		}
		def.Pins = append(def.Pins, pin)
	}

	return def, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(s *schema.Node) *config.NodeInstance {
	return &config.NodeInstance{
		TypeID:    s.TypeKey,
		Name:      s.Name,
		Arguments: extractBodyAttributes(s.Arguments),
	}
}
