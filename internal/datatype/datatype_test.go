package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromID(t *testing.T) {
	assert.Equal(t, Any{}, FromID(""))
	assert.Equal(t, Any{}, FromID("any"))
	assert.Equal(t, Number, FromID("number"))
	assert.Equal(t, Simple{Name: "string"}, FromID("string"))
}

func TestCompatibility(t *testing.T) {
	str := Simple{Name: "string"}

	cases := []struct {
		name   string
		source Type
		target Type
		want   bool
	}{
		{"same simple types", Number, Number, true},
		{"different simple types", Number, str, false},
		{"any feeds simple", Any{}, Number, true},
		{"simple feeds any", Number, Any{}, true},
		{"any feeds any", Any{}, Any{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.source.CanTarget(tc.target))
			assert.Equal(t, tc.want, tc.target.CanSource(tc.source))
		})
	}
}
