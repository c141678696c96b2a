package advisor

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// decoder validates untrusted model output against a JSON Schema before
// unmarshalling it.
type decoder struct {
	schema *jsonschema.Schema
}

func loadDecoder(name string) (*decoder, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read %s schema: %w", name, err)
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(raw, rs); err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return &decoder{schema: rs}, nil
}

// StripFences removes an optional Markdown code fence around a JSON payload.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (d *decoder) decode(ctx context.Context, text string, out any) error {
	payload := []byte(StripFences(text))
	if !json.Valid(payload) {
		return fmt.Errorf("model output is not valid JSON")
	}
	verrs, err := d.schema.ValidateBytes(ctx, payload)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.PropertyPath+": "+v.Message)
		}
		return fmt.Errorf("model output does not match schema: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}
