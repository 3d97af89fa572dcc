package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationKey(t *testing.T) {
	cases := []struct {
		name     string
		category []string
		id       string
		want     string
	}{
		{"single category", []string{"math"}, "binop", "math/binop"},
		{"nested category", []string{"custom", "audio"}, "gain", "custom/audio/gain"},
		{"no category", nil, "standalone", "standalone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := &NodeTypeDefinition{Category: tc.category, ID: tc.id}
			assert.Equal(t, tc.want, def.RegistrationKey())
		})
	}
}

func TestPinAccessors(t *testing.T) {
	def := &NodeTypeDefinition{
		ID: "binop",
		Pins: []*PinDefinition{
			{ID: "a", Direction: DirIn},
			{ID: "b", Direction: DirIn},
			{ID: "res", Direction: DirOut},
		},
	}

	require.NotNil(t, def.Pin("b"))
	assert.Equal(t, DirIn, def.Pin("b").Direction)
	assert.Nil(t, def.Pin("missing"))

	ins := def.InputPins()
	require.Len(t, ins, 2)
	assert.Equal(t, "a", ins[0].ID)
	assert.Equal(t, "b", ins[1].ID)

	outs := def.OutputPins()
	require.Len(t, outs, 1)
	assert.Equal(t, "res", outs[0].ID)
}
