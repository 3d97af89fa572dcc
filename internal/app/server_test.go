package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	nshcl "github.com/vk/nodesmith/internal/hcl"
	"github.com/vk/nodesmith/internal/registry"
	"github.com/vk/nodesmith/modules/math"
)

const bridgeManifests = `
node_type "math" "constant" {
  name = "Constant"

  lifecycle {
    calc = "CalcConstant"
  }

  property "value" {
    type    = number
    default = 1.0
  }

  pin "out" {
    label     = "Value"
    direction = "out"
    type      = "number"
  }
}

node_type "custom" "my_add" {
  name = "Add"
}
`

func newBridgeApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.hcl"), []byte(bridgeManifests), 0o644))

	cfg, err := NewConfig(Config{TypesPath: dir, LogFormat: "text", LogLevel: "error"})
	require.NoError(t, err)

	var out bytes.Buffer
	return NewApp(&out, cfg, nshcl.NewLoader(), &math.Module{})
}

func TestHealthHandler(t *testing.T) {
	a := newBridgeApp(t)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestNodesHandler(t *testing.T) {
	a := newBridgeApp(t)

	rec := httptest.NewRecorder()
	a.nodesHandler(rec, httptest.NewRequest(http.MethodGet, "/nodes.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `LiteGraph.registerNodeType("custom/my_add", my_add);`)
	assert.Contains(t, body, `LiteGraph.registerNodeType("math/constant", constant);`)
	assert.Contains(t, body, `this.addOutput("Value", "number");`)

	// Each request renders a fresh bundle.
	again := httptest.NewRecorder()
	a.nodesHandler(again, httptest.NewRequest(http.MethodGet, "/nodes.js", nil))
	assert.Equal(t, body, again.Body.String())
}

func TestRegistrationKeys(t *testing.T) {
	a := newBridgeApp(t)
	assert.Equal(t, []string{"custom/my_add", "math/constant"}, a.registrationKeys())
}

func TestFlattenResults(t *testing.T) {
	flat := flattenResults(map[string]registry.PinValues{
		"a1": {"res": cty.NumberFloatVal(12)},
		"t1": {"out": cty.StringVal("done"), "ok": cty.True},
	})

	assert.Equal(t, map[string]any{
		"a1.res": 12.0,
		"t1.out": "done",
		"t1.ok":  true,
	}, flat)
}

func TestJSONValue(t *testing.T) {
	assert.Nil(t, jsonValue(cty.NullVal(cty.Number)))
	assert.Equal(t, 2.5, jsonValue(cty.NumberFloatVal(2.5)))
	assert.Equal(t, "x", jsonValue(cty.StringVal("x")))
	assert.Equal(t, false, jsonValue(cty.False))
}
