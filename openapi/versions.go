package openapi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Gobd/apischema"
	"github.com/getkin/kin-openapi/openapi3"
)

const typeNull = "null"

// Specifics encapsulates the encoding differences between OpenAPI versions.
// Implementations are stateless; one is chosen per [Generator].
type Specifics interface {
	// OpenAPIVersion is the default version string for generated documents.
	OpenAPIVersion() string

	// NullableType returns the fragment meaning "also accepts null".
	NullableType() *openapi3.Schema

	// DecorateNullable marks s as accepting null when nullable is set. It
	// may return a different schema that wraps s.
	DecorateNullable(s *openapi3.Schema, nullable bool) *openapi3.Schema

	// DecorateNumericRange encodes range checks as minimum/maximum bounds.
	// A later check replaces an earlier one on the same side.
	DecorateNumericRange(s *openapi3.Schema, checks []apischema.NumberCheck)
}

// V30 returns the OpenAPI 3.0 encoding: nullable is a boolean sibling flag
// and exclusive bounds are boolean modifiers of minimum/maximum.
func V30() Specifics { return v30{} }

// V31 returns the OpenAPI 3.1 encoding: null is a member of the type list
// (or an anyOf alternative) and exclusive bounds are numbers.
func V31() Specifics { return v31{} }

// SpecificsFor picks the encoding for an OpenAPI version string. Anything
// other than 3.1.x is treated as 3.0; use [ParseVersion] to reject
// unsupported versions instead.
func SpecificsFor(version string) Specifics {
	if strings.HasPrefix(strings.TrimSpace(version), "3.1") {
		return V31()
	}
	return V30()
}

// ParseVersion returns the encoding for a 3.0.x or 3.1.x version string.
// Any other version fails with [ErrUnsupportedVersion].
func ParseVersion(version string) (Specifics, error) {
	v := strings.TrimSpace(version)
	switch {
	case strings.HasPrefix(v, "3.0."):
		return V30(), nil
	case strings.HasPrefix(v, "3.1."):
		return V31(), nil
	}
	return nil, fmt.Errorf("%w %q: want 3.0.x or 3.1.x", ErrUnsupportedVersion, version)
}

type v30 struct{}

func (v30) OpenAPIVersion() string { return "3.0.0" }

func (v30) NullableType() *openapi3.Schema {
	return &openapi3.Schema{Nullable: true}
}

func (v30) DecorateNullable(s *openapi3.Schema, nullable bool) *openapi3.Schema {
	if nullable {
		s.Nullable = true
	}
	return s
}

func (v30) DecorateNumericRange(s *openapi3.Schema, checks []apischema.NumberCheck) {
	for _, c := range checks {
		v := c.Value
		switch c.Kind {
		case apischema.CheckMin:
			s.Min = &v
			s.ExclusiveMin = !c.Inclusive
		case apischema.CheckMax:
			s.Max = &v
			s.ExclusiveMax = !c.Inclusive
		}
	}
}

type v31 struct{}

func (v31) OpenAPIVersion() string { return "3.1.0" }

func (v31) NullableType() *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{typeNull}}
}

func (v v31) DecorateNullable(s *openapi3.Schema, nullable bool) *openapi3.Schema {
	if !nullable {
		return s
	}
	switch {
	case s.Type != nil && len(*s.Type) > 0:
		if !slices.Contains(*s.Type, typeNull) {
			types := append(openapi3.Types{}, *s.Type...)
			types = append(types, typeNull)
			s.Type = &types
		}
		// An enum rejects null unless null is one of its values.
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, any(nil)) {
			s.Enum = append(slices.Clip(s.Enum), nil)
		}
		return s
	case len(s.AnyOf) > 0:
		s.AnyOf = append(s.AnyOf, openapi3.NewSchemaRef("", v.NullableType()))
		return s
	default:
		return &openapi3.Schema{
			AnyOf: openapi3.SchemaRefs{
				openapi3.NewSchemaRef("", s),
				openapi3.NewSchemaRef("", v.NullableType()),
			},
		}
	}
}

// DecorateNumericRange writes exclusive bounds as extensions because the
// kin-openapi schema model only has the 3.0 boolean form; extensions are
// marshalled inline, producing plain exclusiveMinimum/exclusiveMaximum keys.
func (v31) DecorateNumericRange(s *openapi3.Schema, checks []apischema.NumberCheck) {
	for _, c := range checks {
		v := c.Value
		switch {
		case c.Kind == apischema.CheckMin && c.Inclusive:
			s.Min = &v
			deleteExtension(s, "exclusiveMinimum")
		case c.Kind == apischema.CheckMin:
			s.Min = nil
			setExtension(s, "exclusiveMinimum", v)
		case c.Kind == apischema.CheckMax && c.Inclusive:
			s.Max = &v
			deleteExtension(s, "exclusiveMaximum")
		case c.Kind == apischema.CheckMax:
			s.Max = nil
			setExtension(s, "exclusiveMaximum", v)
		}
	}
}

func setExtension(s *openapi3.Schema, key string, v any) {
	if s.Extensions == nil {
		s.Extensions = make(map[string]any)
	}
	s.Extensions[key] = v
}

func deleteExtension(s *openapi3.Schema, key string) {
	delete(s.Extensions, key)
	if len(s.Extensions) == 0 {
		s.Extensions = nil
	}
}
