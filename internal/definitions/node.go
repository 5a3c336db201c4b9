package definitions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Gobd/apischema"
	"gopkg.in/yaml.v3"
)

// nodeSpec is the YAML form of one schema node. Which keys apply depends
// on Kind.
type nodeSpec struct {
	Kind string `yaml:"kind"`
	Ref  string `yaml:"ref"`

	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	Title       string         `yaml:"title"`
	Example     any            `yaml:"example"`
	Default     any            `yaml:"default"`
	Deprecated  bool           `yaml:"deprecated"`
	Extensions  map[string]any `yaml:"extensions"`

	Optional bool `yaml:"optional"`
	Nullable bool `yaml:"nullable"`

	MinLength *int   `yaml:"minLength"`
	MaxLength *int   `yaml:"maxLength"`
	Pattern   string `yaml:"pattern"`
	Format    string `yaml:"format"`

	Integer          bool     `yaml:"integer"`
	Minimum          *float64 `yaml:"minimum"`
	Maximum          *float64 `yaml:"maximum"`
	ExclusiveMinimum *float64 `yaml:"exclusiveMinimum"`
	ExclusiveMaximum *float64 `yaml:"exclusiveMaximum"`

	Value  any   `yaml:"value"`
	Values []any `yaml:"values"`

	Properties  yaml.Node `yaml:"properties"`
	UnknownKeys string    `yaml:"unknownKeys"`

	Items    *nodeSpec `yaml:"items"`
	MinItems *int      `yaml:"minItems"`
	MaxItems *int      `yaml:"maxItems"`

	AdditionalProperties *nodeSpec `yaml:"additionalProperties"`

	AnyOf []nodeSpec `yaml:"anyOf"`
	AllOf []nodeSpec `yaml:"allOf"`
}

func (n *nodeSpec) metadata() apischema.Metadata {
	return apischema.Metadata{
		Name:        n.Name,
		Description: n.Description,
		Type:        n.Type,
		Title:       n.Title,
		Example:     n.Example,
		Default:     n.Default,
		Deprecated:  n.Deprecated,
		Extensions:  n.Extensions,
	}
}

func (n *nodeSpec) hasMetadata() bool {
	return n.Name != "" || n.Description != "" || n.Type != "" || n.Title != "" ||
		n.Example != nil || n.Default != nil || n.Deprecated || len(n.Extensions) > 0
}

var stringFormats = map[string]func(*apischema.StringSchema) *apischema.StringSchema{
	string(apischema.FormatEmail):    (*apischema.StringSchema).Email,
	string(apischema.FormatURI):      (*apischema.StringSchema).URL,
	"url":                            (*apischema.StringSchema).URL,
	string(apischema.FormatUUID):     (*apischema.StringSchema).UUID,
	string(apischema.FormatDateTime): (*apischema.StringSchema).Datetime,
}

type builder struct {
	named map[string]apischema.Schema
}

func newBuilder() *builder {
	return &builder{named: map[string]apischema.Schema{}}
}

func (b *builder) optional(n *nodeSpec, path string) (apischema.Schema, error) {
	if n == nil {
		return nil, nil
	}
	return b.build(n, path)
}

// build turns n into a schema node, then applies metadata and wrappers.
func (b *builder) build(n *nodeSpec, path string) (apischema.Schema, error) {
	if n.Ref != "" {
		return b.ref(n, path)
	}

	s, err := b.structure(n, path)
	if err != nil {
		return nil, err
	}
	// Metadata goes on the inner node so a wrapper never hides its name.
	if n.hasMetadata() {
		s = apischema.WithMetadata(s, n.metadata())
	}
	if n.Optional {
		s = apischema.Optional(s)
	}
	if n.Nullable {
		s = apischema.Nullable(s)
	}
	return s, nil
}

func (b *builder) ref(n *nodeSpec, path string) (apischema.Schema, error) {
	if n.Kind != "" || n.hasMetadata() {
		return nil, fmt.Errorf("%s: ref %q accepts only optional and nullable alongside it", path, n.Ref)
	}
	s, ok := b.named[n.Ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownRef, n.Ref)
	}
	if n.Optional {
		s = apischema.Optional(s)
	}
	if n.Nullable {
		s = apischema.Nullable(s)
	}
	return s, nil
}

func (b *builder) structure(n *nodeSpec, path string) (apischema.Schema, error) {
	switch strings.ToLower(n.Kind) {
	case "string":
		return stringNode(n, path)
	case "number":
		return numberNode(n, n.Integer), nil
	case "integer":
		return numberNode(n, true), nil
	case "boolean":
		return apischema.Boolean(), nil
	case "null":
		return apischema.Null(), nil
	case "literal":
		return apischema.Literal(n.Value), nil
	case "enum":
		values := make([]string, len(n.Values))
		for i, v := range n.Values {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%s.values[%d]: enum values must be strings, use native-enum for %T", path, i, v)
			}
			values[i] = s
		}
		return apischema.Enum(values...), nil
	case "native-enum", "nativeenum":
		return apischema.NativeEnum(n.Values...), nil
	case "object":
		return b.object(n, path)
	case "array":
		if n.Items == nil {
			return nil, fmt.Errorf("%s: array requires items", path)
		}
		items, err := b.build(n.Items, path+".items")
		if err != nil {
			return nil, err
		}
		a := apischema.Array(items)
		if n.MinItems != nil {
			a = a.Min(*n.MinItems)
		}
		if n.MaxItems != nil {
			a = a.Max(*n.MaxItems)
		}
		return a, nil
	case "record":
		if n.AdditionalProperties == nil {
			return nil, fmt.Errorf("%s: record requires additionalProperties", path)
		}
		v, err := b.build(n.AdditionalProperties, path+".additionalProperties")
		if err != nil {
			return nil, err
		}
		return apischema.Record(v), nil
	case "union":
		if len(n.AnyOf) == 0 {
			return nil, fmt.Errorf("%s: union requires anyOf", path)
		}
		options, err := b.list(n.AnyOf, path+".anyOf")
		if err != nil {
			return nil, err
		}
		return apischema.Union(options...), nil
	case "intersection":
		if len(n.AllOf) < 2 {
			return nil, fmt.Errorf("%s: intersection requires at least two allOf members", path)
		}
		members, err := b.list(n.AllOf, path+".allOf")
		if err != nil {
			return nil, err
		}
		// a & (b & (c ...))
		s := members[len(members)-1]
		for i := len(members) - 2; i >= 0; i-- {
			s = apischema.Intersection(members[i], s)
		}
		return s, nil
	case "unknown", "any":
		return apischema.Unknown(), nil
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, n.Kind)
	}
}

func (b *builder) list(specs []nodeSpec, path string) ([]apischema.Schema, error) {
	out := make([]apischema.Schema, 0, len(specs))
	for i := range specs {
		s, err := b.build(&specs[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stringNode(n *nodeSpec, path string) (*apischema.StringSchema, error) {
	s := apischema.String()
	if n.MinLength != nil {
		s = s.Min(*n.MinLength)
	}
	if n.MaxLength != nil {
		s = s.Max(*n.MaxLength)
	}
	if n.Pattern != "" {
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s.pattern: %w", path, err)
		}
		s = s.Regex(re)
	}
	if n.Format != "" {
		if f, ok := stringFormats[strings.ToLower(n.Format)]; ok {
			s = f(s)
		} else {
			// Formats without a validator are documented only.
			s = s.OpenAPI(apischema.Metadata{Format: n.Format})
		}
	}
	return s, nil
}

func numberNode(n *nodeSpec, integer bool) *apischema.NumberSchema {
	s := apischema.Number()
	if integer {
		s = s.Int()
	}
	if n.Minimum != nil {
		s = s.Min(*n.Minimum)
	}
	if n.ExclusiveMinimum != nil {
		s = s.Gt(*n.ExclusiveMinimum)
	}
	if n.Maximum != nil {
		s = s.Max(*n.Maximum)
	}
	if n.ExclusiveMaximum != nil {
		s = s.Lt(*n.ExclusiveMaximum)
	}
	if n.Format != "" {
		s = s.OpenAPI(apischema.Metadata{Format: n.Format})
	}
	return s
}

// object reads properties from the raw mapping node so declaration order
// survives decoding.
func (b *builder) object(n *nodeSpec, path string) (*apischema.ObjectSchema, error) {
	var props []apischema.Property
	switch n.Properties.Kind {
	case 0:
	case yaml.MappingNode:
		content := n.Properties.Content
		for i := 0; i+1 < len(content); i += 2 {
			name := content[i].Value
			var spec nodeSpec
			if err := content[i+1].Decode(&spec); err != nil {
				return nil, fmt.Errorf("%s.properties.%s: %w", path, name, err)
			}
			s, err := b.build(&spec, path+".properties."+name)
			if err != nil {
				return nil, err
			}
			props = append(props, apischema.Field(name, s))
		}
	default:
		return nil, fmt.Errorf("%s.properties: want a mapping", path)
	}

	obj := apischema.Object(props...)
	switch strings.ToLower(n.UnknownKeys) {
	case "", string(apischema.UnknownKeysStrip):
	case string(apischema.UnknownKeysStrict):
		obj = obj.Strict()
	case string(apischema.UnknownKeysPassthrough):
		obj = obj.Passthrough()
	default:
		return nil, fmt.Errorf("%s.unknownKeys: want strip, strict or passthrough, got %q", path, n.UnknownKeys)
	}
	return obj, nil
}
