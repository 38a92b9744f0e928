package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaGate validates untrusted model output against a schema compiled
// once for the process lifetime. Compilation errors surface on Validate
// rather than at startup; the schemas are static so they never occur in
// practice.
type SchemaGate struct {
	name   string
	schema *jsonschema.Schema
	err    error
}

func newSchemaGate(name string, schemaMap map[string]any) *SchemaGate {
	g := &SchemaGate{name: name}
	b, err := json.Marshal(schemaMap)
	if err != nil {
		g.err = fmt.Errorf("marshal schema %s: %w", name, err)
		return g
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		g.err = fmt.Errorf("add schema %s: %w", name, err)
		return g
	}
	g.schema, err = compiler.Compile(name)
	if err != nil {
		g.err = fmt.Errorf("compile schema %s: %w", name, err)
	}
	return g
}

// Validate parses data as JSON and checks it against the gate's schema.
func (g *SchemaGate) Validate(data []byte) error {
	if g.err != nil {
		return g.err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := g.schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

var (
	invoiceGate = sync.OnceValue(func() *SchemaGate {
		return newSchemaGate("invoice.json", buildInvoiceJSONSchema())
	})
	riskGate = sync.OnceValue(func() *SchemaGate {
		return newSchemaGate("risk.json", buildRiskJSONSchema())
	})
)

// InvoiceGate returns the shared gate for extraction responses.
func InvoiceGate() *SchemaGate { return invoiceGate() }

// RiskGate returns the shared gate for risk-assessment responses.
func RiskGate() *SchemaGate { return riskGate() }
