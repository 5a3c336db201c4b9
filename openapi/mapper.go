package openapi

import (
	"fmt"
	"maps"

	"github.com/Gobd/apischema"
	"github.com/getkin/kin-openapi/openapi3"
)

// mapper turns schema nodes into OpenAPI fragments, consulting and updating
// the registries of one generation.
type mapper struct {
	specifics Specifics
	refs      *refs
	logger    Logger
}

func newMapper(specifics Specifics, logger Logger) *mapper {
	return &mapper{
		specifics: specifics,
		refs:      newRefs(),
		logger:    logger,
	}
}

// resolveMetadata prefers metadata attached to the outer (possibly wrapped)
// node and falls back to the inner node's.
func resolveMetadata(outer, inner apischema.Schema) *apischema.Metadata {
	if m := outer.Meta(); m != nil {
		return m
	}
	return inner.Meta()
}

func metadataName(m *apischema.Metadata) string {
	if m == nil {
		return ""
	}
	return m.Name
}

// mapSchema returns the fragment for s, or a reference when a schema with
// the same name is already registered. With registerIfNamed, a named node
// is stored in the schema registry and its full fragment returned.
func (m *mapper) mapSchema(s apischema.Schema, registerIfNamed, includeMetadata bool) (*openapi3.SchemaRef, error) {
	inner, _, nullable := apischema.Unwrap(s)
	meta := resolveMetadata(s, inner)
	name := metadataName(meta)

	if name != "" && m.refs.hasSchema(name) {
		m.logger.Debug("schema already registered, emitting reference", "name", name)
		return schemaRef(name), nil
	}

	schema, err := m.mapInner(inner, nullable, meta)
	if err != nil {
		return nil, err
	}
	if includeMetadata {
		applyMetadata(schema, meta)
	}

	if registerIfNamed && name != "" {
		m.refs.addSchema(name, schema)
		m.logger.Debug("registered schema", "name", name)
	}
	return openapi3.NewSchemaRef("", schema), nil
}

// mapInner builds the fragment for an unwrapped node. A metadata type
// override replaces the mapped type before nullability is applied, so the
// override and the null marker both survive.
func (m *mapper) mapInner(inner apischema.Schema, nullable bool, meta *apischema.Metadata) (*openapi3.Schema, error) {
	s, err := m.structure(inner, meta)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.Type != "" {
		s.Type = &openapi3.Types{meta.Type}
	}
	if _, ok := inner.(*apischema.NullSchema); ok {
		return s, nil
	}
	return m.specifics.DecorateNullable(s, nullable), nil
}

func (m *mapper) structure(inner apischema.Schema, meta *apischema.Metadata) (*openapi3.Schema, error) {
	switch n := inner.(type) {
	case *apischema.NullSchema:
		return typed(typeNull), nil
	case *apischema.StringSchema:
		return stringSchema(n), nil
	case *apischema.NumberSchema:
		return m.numberSchema(n), nil
	case *apischema.BooleanSchema:
		return typed(openapi3.TypeBoolean), nil
	case *apischema.LiteralSchema:
		s := typed(literalType(n.Value()))
		s.Enum = []any{n.Value()}
		return s, nil
	case *apischema.EnumSchema:
		s := typed(openapi3.TypeString)
		s.Enum = make([]any, len(n.Values()))
		for i, v := range n.Values() {
			s.Enum[i] = v
		}
		return s, nil
	case *apischema.NativeEnumSchema:
		// Numeric members are rendered as strings; the mapping is lossy.
		s := typed(openapi3.TypeString)
		s.Enum = make([]any, len(n.Values()))
		for i, v := range n.Values() {
			s.Enum[i] = fmt.Sprint(v)
		}
		return s, nil
	case *apischema.ObjectSchema:
		return m.objectSchema(n)
	case *apischema.RecordSchema:
		value, err := m.mapSchema(n.ValueSchema(), false, true)
		if err != nil {
			return nil, err
		}
		s := typed(openapi3.TypeObject)
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: value}
		return s, nil
	case *apischema.ArraySchema:
		return m.arraySchema(n)
	case *apischema.UnionSchema:
		options, err := m.mapAll(flattenUnion(n))
		if err != nil {
			return nil, err
		}
		return &openapi3.Schema{AnyOf: options}, nil
	case *apischema.IntersectionSchema:
		members, err := m.mapAll(flattenIntersection(n))
		if err != nil {
			return nil, err
		}
		return &openapi3.Schema{AllOf: members}, nil
	default:
		if meta != nil && meta.Type != "" {
			return typed(meta.Type), nil
		}
		return nil, &UnsupportedSchemaKindError{Kind: inner.Kind()}
	}
}

// mapAll maps the members of a composition. Members are never registered:
// a named member that is not yet known is inlined.
func (m *mapper) mapAll(nodes []apischema.Schema) (openapi3.SchemaRefs, error) {
	out := make(openapi3.SchemaRefs, 0, len(nodes))
	for _, n := range nodes {
		ref, err := m.mapSchema(n, false, true)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func (m *mapper) numberSchema(n *apischema.NumberSchema) *openapi3.Schema {
	s := typed(openapi3.TypeNumber)
	if n.IsInt() {
		s = typed(openapi3.TypeInteger)
	}
	m.specifics.DecorateNumericRange(s, n.Checks())
	return s
}

func stringSchema(n *apischema.StringSchema) *openapi3.Schema {
	s := typed(openapi3.TypeString)
	c := n.Checks()
	if c.MinLength != nil {
		s.MinLength = uint64(*c.MinLength)
	}
	if c.MaxLength != nil {
		hi := uint64(*c.MaxLength)
		s.MaxLength = &hi
	}
	if c.Pattern != nil {
		s.Pattern = c.Pattern.String()
	}
	s.Format = string(c.Format)
	return s
}

func (m *mapper) objectSchema(n *apischema.ObjectSchema) (*openapi3.Schema, error) {
	s := typed(openapi3.TypeObject)
	s.Properties = make(openapi3.Schemas, len(n.Properties()))
	for _, p := range n.Properties() {
		if p.Schema == nil {
			continue
		}
		ref, err := m.mapSchema(p.Schema, false, true)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		s.Properties[p.Name] = ref
		if !apischema.IsOptional(p.Schema) {
			s.Required = append(s.Required, p.Name)
		}
	}
	if len(s.Properties) == 0 {
		// kin-openapi omits an empty properties map; emit the key inline.
		s.Properties = nil
		setExtension(s, "properties", map[string]any{})
	}
	if n.UnknownKeys() == apischema.UnknownKeysPassthrough {
		s.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(true)}
	}
	return s, nil
}

func (m *mapper) arraySchema(n *apischema.ArraySchema) (*openapi3.Schema, error) {
	items, err := m.mapSchema(n.Element(), false, true)
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	s := typed(openapi3.TypeArray)
	s.Items = items
	lo, hi := n.Bounds()
	if lo != nil {
		s.MinItems = uint64(*lo)
	}
	if hi != nil {
		v := uint64(*hi)
		s.MaxItems = &v
	}
	return s, nil
}

// flattenUnion lists the leaf options of nested unions, left to right.
func flattenUnion(n *apischema.UnionSchema) []apischema.Schema {
	var out []apischema.Schema
	for _, o := range n.Options() {
		if u, ok := o.(*apischema.UnionSchema); ok {
			out = append(out, flattenUnion(u)...)
			continue
		}
		out = append(out, o)
	}
	return out
}

// flattenIntersection lists the members of nested intersections, the left
// subtree fully before the right.
func flattenIntersection(n *apischema.IntersectionSchema) []apischema.Schema {
	var out []apischema.Schema
	for _, side := range []apischema.Schema{n.Left(), n.Right()} {
		if i, ok := side.(*apischema.IntersectionSchema); ok {
			out = append(out, flattenIntersection(i)...)
			continue
		}
		out = append(out, side)
	}
	return out
}

// applyMetadata copies the descriptive metadata fields onto s. The name
// and the type override are handled by mapSchema and mapInner.
func applyMetadata(s *openapi3.Schema, meta *apischema.Metadata) {
	if meta == nil {
		return
	}
	if meta.Description != "" {
		s.Description = meta.Description
	}
	if meta.Title != "" {
		s.Title = meta.Title
	}
	if meta.Format != "" {
		s.Format = meta.Format
	}
	if meta.Example != nil {
		s.Example = meta.Example
	}
	if meta.Default != nil {
		s.Default = meta.Default
	}
	if meta.Deprecated {
		s.Deprecated = true
	}
	if len(meta.Extensions) > 0 {
		if s.Extensions == nil {
			s.Extensions = make(map[string]any, len(meta.Extensions))
		}
		maps.Copy(s.Extensions, meta.Extensions)
	}
}

func typed(t string) *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{t}}
}

func literalType(v any) string {
	switch v.(type) {
	case nil:
		return typeNull
	case string:
		return openapi3.TypeString
	case bool:
		return openapi3.TypeBoolean
	default:
		return openapi3.TypeNumber
	}
}
