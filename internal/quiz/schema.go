// Package quiz holds the skin-profile questionnaire: its declarative schema
// and the validated answers submitted against it.
package quiz

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind is how a field is rendered and which value shape it accepts.
type Kind string

const (
	KindSelect   Kind = "select"
	KindNumber   Kind = "number"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindText     Kind = "text"
)

//go:embed quiz.yaml
var rawSchema []byte

// Schema is the ordered questionnaire served to the step renderer.
type Schema struct {
	Title       string    `yaml:"title" json:"title"`
	Intro       string    `yaml:"intro" json:"intro"`
	SubmitLabel string    `yaml:"submit_label" json:"submit_label"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field describes one question. Min and Max bound numbers, and for text
// fields Max is a length cap.
type Field struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label" json:"label"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Required    bool     `yaml:"required" json:"required"`
	Message     string   `yaml:"message" json:"message,omitempty"`
	Options     []string `yaml:"options" json:"options,omitempty"`
	Min         *int     `yaml:"min" json:"min,omitempty"`
	Max         *int     `yaml:"max" json:"max,omitempty"`
	Placeholder string   `yaml:"placeholder" json:"placeholder,omitempty"`
}

var loadSchema = sync.OnceValues(func() (*Schema, error) {
	return Parse(rawSchema)
})

// Default returns the embedded questionnaire.
func Default() (*Schema, error) {
	return loadSchema()
}

// Parse decodes a YAML schema and checks it is well formed.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode quiz schema: %w", err)
	}
	seen := map[string]bool{}
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("section %q has a field without a name", sec.ID)
			}
			if seen[f.Name] {
				return nil, fmt.Errorf("duplicate quiz field %q", f.Name)
			}
			seen[f.Name] = true
			switch f.Kind {
			case KindSelect, KindRadio, KindCheckbox:
				if len(f.Options) == 0 {
					return nil, fmt.Errorf("field %q needs options", f.Name)
				}
			case KindNumber, KindText:
			default:
				return nil, fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
			}
		}
	}
	return &s, nil
}

// Fields returns every field in display order.
func (s *Schema) Fields() []Field {
	var out []Field
	for _, sec := range s.Sections {
		out = append(out, sec.Fields...)
	}
	return out
}

// Validate checks values against the schema. Values hold string for
// select/radio/text, int for number and []string for checkbox. Unknown keys
// are rejected. Failures come back as one validation error with per-field
// details.
func (s *Schema) Validate(values map[string]any) error {
	problems := map[string]string{}
	known := map[string]bool{}

	for _, f := range s.Fields() {
		known[f.Name] = true
		if msg := f.check(values[f.Name]); msg != "" {
			problems[f.Name] = msg
		}
	}
	for name := range values {
		if !known[name] {
			problems[name] = "is not a quiz question"
		}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quiz answers are incomplete").WithDetails(problems)
	}
	return nil
}

func (f Field) check(value any) string {
	required := func() string {
		if f.Message != "" {
			return f.Message
		}
		return "is required"
	}

	switch f.Kind {
	case KindNumber:
		n, ok := value.(int)
		if !ok || n == 0 {
			if f.Required {
				return required()
			}
			return ""
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Sprintf("must be at least %d", *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Sprintf("must be at most %d", *f.Max)
		}
	case KindCheckbox:
		picked, _ := value.([]string)
		if len(picked) == 0 {
			if f.Required {
				return required()
			}
			return ""
		}
		for _, p := range picked {
			if !slices.Contains(f.Options, p) {
				return fmt.Sprintf("%q is not an option", p)
			}
		}
	default:
		str, _ := value.(string)
		if strings.TrimSpace(str) == "" {
			if f.Required {
				return required()
			}
			return ""
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, str) {
			return fmt.Sprintf("%q is not an option", str)
		}
		if f.Kind == KindText && f.Max != nil && utf8.RuneCountInString(str) > *f.Max {
			return fmt.Sprintf("must be at most %d characters", *f.Max)
		}
	}
	return ""
}
