package apischema

import "maps"

// Metadata is the OpenAPI-facing annotation attached to a schema node.
//
// Name selects the component registration key and is never emitted as a
// schema field. Every other non-zero field is copied onto the generated
// schema object; Extensions are emitted verbatim as extra schema keys.
type Metadata struct {
	Name        string
	Description string
	// Type overrides the generated OpenAPI type. A node kind without a
	// mapping can still be documented when Type is set.
	Type       string
	Title      string
	Format     string
	Example    any
	Default    any
	Deprecated bool
	Extensions map[string]any
}

// merge returns a copy of m with the non-zero fields of o applied on top.
func (m *Metadata) merge(o Metadata) *Metadata {
	var out Metadata
	if m != nil {
		out = *m
		out.Extensions = maps.Clone(m.Extensions)
	}
	if o.Name != "" {
		out.Name = o.Name
	}
	if o.Description != "" {
		out.Description = o.Description
	}
	if o.Type != "" {
		out.Type = o.Type
	}
	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Format != "" {
		out.Format = o.Format
	}
	if o.Example != nil {
		out.Example = o.Example
	}
	if o.Default != nil {
		out.Default = o.Default
	}
	if o.Deprecated {
		out.Deprecated = true
	}
	if len(o.Extensions) > 0 {
		if out.Extensions == nil {
			out.Extensions = make(map[string]any, len(o.Extensions))
		}
		maps.Copy(out.Extensions, o.Extensions)
	}
	return &out
}

func (m *Metadata) name() string {
	if m == nil {
		return ""
	}
	return m.Name
}

// Describe returns a copy of s with desc as its description.
func Describe[S Schema](s S, desc string) S {
	return WithMetadata(s, Metadata{Description: desc})
}

// WithMetadata returns a shallow copy of s carrying m merged over the
// metadata s already has. Non-zero fields of m win. s itself is left
// untouched, so one node can be annotated differently in several places.
func WithMetadata[S Schema](s S, m Metadata) S {
	c := s.clone().(S)
	c.node().attach(m)
	return c
}
