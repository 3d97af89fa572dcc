package emit

import (
	"bytes"
	"strconv"
	"text/template"

	"github.com/vk/nodesmith/internal/config"
)

// adderStubTemplate is the fixed block shape: two numeric inputs, one
// numeric output, and an execution handler that sums the inputs,
// substituting zero for any unconnected input.
var adderStubTemplate = template.Must(template.New("adder_stub").Parse(
	`function {{.Ctor}}()
{
    this.addInput("A", "number");
    this.addInput("B", "number");
    this.addOutput("Sum", "number");
}
{{.Ctor}}.title = {{.Title}};
{{.Ctor}}.prototype.onExecute = function ()
{
    var a = this.getInputData(0);
    if (a === undefined)
        a = 0;
    var b = this.getInputData(1);
    if (b === undefined)
        b = 0;
    this.setOutputData(0, a + b);
};
LiteGraph.registerNodeType({{.Key}}, {{.Ctor}});
`))

// pinStubTemplate declares the ports a full definition describes and
// registers the constructor, leaving execution to the host side.
var pinStubTemplate = template.Must(template.New("pin_stub").Parse(
	`function {{.Ctor}}()
{
{{- range .Inputs}}
    this.addInput({{.Label}}, {{.Type}});
{{- end}}
{{- range .Outputs}}
    this.addOutput({{.Label}}, {{.Type}});
{{- end}}
}
{{.Ctor}}.title = {{.Title}};
LiteGraph.registerNodeType({{.Key}}, {{.Ctor}});
`))

// stubData is the substitution payload shared by both renderers. All string
// fields except Ctor are pre-quoted JS string literals.
type stubData struct {
	Ctor    string
	Title   string
	Key     string
	Inputs  []stubPin
	Outputs []stubPin
}

type stubPin struct {
	Label string
	Type  string
}

// RenderAdderStub fills the fixed adder block for the given definition.
// The definition's declared pins are deliberately ignored; every stub gets
// the two-input/one-output adder shape. Use RenderPins when the ports
// should derive from the definition.
func RenderAdderStub(def *config.NodeTypeDefinition) (string, error) {
	return execute(adderStubTemplate, stubData{
		Ctor:  def.ID,
		Title: strconv.Quote(def.Name),
		Key:   strconv.Quote(def.RegistrationKey()),
	})
}

// RenderPins fills a registration block whose ports derive from the
// definition's declared pins, in declaration order.
func RenderPins(def *config.NodeTypeDefinition) (string, error) {
	data := stubData{
		Ctor:  def.ID,
		Title: strconv.Quote(def.Name),
		Key:   strconv.Quote(def.RegistrationKey()),
	}
	for _, pin := range def.InputPins() {
		data.Inputs = append(data.Inputs, stubPin{
			Label: strconv.Quote(pin.Label),
			Type:  strconv.Quote(pin.TypeID),
		})
	}
	for _, pin := range def.OutputPins() {
		data.Outputs = append(data.Outputs, stubPin{
			Label: strconv.Quote(pin.Label),
			Type:  strconv.Quote(pin.TypeID),
		})
	}
	return execute(pinStubTemplate, data)
}

func execute(tmpl *template.Template, data stubData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
