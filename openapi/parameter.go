package openapi

import (
	"fmt"

	"github.com/Gobd/apischema"
	"github.com/getkin/kin-openapi/openapi3"
)

// Location is where a parameter is carried in a request.
type Location string

const (
	LocationPath   Location = openapi3.ParameterInPath
	LocationQuery  Location = openapi3.ParameterInQuery
	LocationHeader Location = openapi3.ParameterInHeader
	LocationCookie Location = openapi3.ParameterInCookie
)

// Valid reports whether l is one of the four OpenAPI parameter locations.
func (l Location) Valid() bool {
	switch l {
	case LocationPath, LocationQuery, LocationHeader, LocationCookie:
		return true
	}
	return false
}

// mapParameter builds the parameter object for s at loc. The parameter name
// is externalName when set, else the metadata name. A parameter already in
// the registry is returned as a reference.
func (m *mapper) mapParameter(s apischema.Schema, loc Location, registerIfNew bool, externalName string) (*openapi3.ParameterRef, error) {
	inner, optional, nullable := apischema.Unwrap(s)
	meta := resolveMetadata(s, inner)

	name := externalName
	if name == "" {
		name = metadataName(meta)
	}
	if name == "" {
		return nil, &UnnamedParameterError{Location: loc}
	}

	if m.refs.hasParameter(name) {
		m.logger.Debug("parameter already registered, emitting reference", "name", name)
		return parameterRef(name), nil
	}

	schema, err := m.mapSchema(s, false, false)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}

	p := &openapi3.Parameter{
		Name:     name,
		In:       string(loc),
		Required: !optional && !nullable,
		Schema:   schema,
	}
	if meta != nil {
		p.Description = meta.Description
		p.Example = meta.Example
		p.Deprecated = meta.Deprecated
	}

	if registerIfNew {
		m.refs.addParameter(name, p)
		m.logger.Debug("registered parameter", "name", name, "in", string(loc))
	}
	return &openapi3.ParameterRef{Value: p}, nil
}

// mapParameterContainer builds one parameter per property of an object
// schema, in declaration order, named after the property.
func (m *mapper) mapParameterContainer(s apischema.Schema, loc Location) (openapi3.Parameters, error) {
	if s == nil {
		return nil, nil
	}
	inner, _, _ := apischema.Unwrap(s)
	obj, ok := inner.(*apischema.ObjectSchema)
	if !ok {
		return nil, fmt.Errorf("%s parameters: want an object schema, got %s", loc, inner.Kind())
	}

	out := make(openapi3.Parameters, 0, len(obj.Properties()))
	for _, prop := range obj.Properties() {
		if prop.Schema == nil {
			continue
		}
		p, err := m.mapParameter(prop.Schema, loc, false, prop.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
