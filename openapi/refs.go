package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

const (
	schemaRefPrefix    = "#/components/schemas/"
	parameterRefPrefix = "#/components/parameters/"
)

// refs records every named entity seen during one generation. The first
// registration of a name wins; later nodes carrying the same name are
// emitted as references even when their structure differs.
type refs struct {
	schemas    openapi3.Schemas
	parameters openapi3.ParametersMap
	paths      *openapi3.Paths
}

func newRefs() *refs {
	return &refs{
		schemas:    openapi3.Schemas{},
		parameters: openapi3.ParametersMap{},
		paths:      openapi3.NewPaths(),
	}
}

func (r *refs) hasSchema(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

func (r *refs) addSchema(name string, s *openapi3.Schema) {
	if r.hasSchema(name) {
		return
	}
	r.schemas[name] = openapi3.NewSchemaRef("", s)
}

func (r *refs) hasParameter(name string) bool {
	_, ok := r.parameters[name]
	return ok
}

func (r *refs) addParameter(name string, p *openapi3.Parameter) {
	if r.hasParameter(name) {
		return
	}
	r.parameters[name] = &openapi3.ParameterRef{Value: p}
}

// components returns the registered schemas and parameters.
func (r *refs) components() *openapi3.Components {
	return &openapi3.Components{
		Schemas:    r.schemas,
		Parameters: r.parameters,
	}
}

func schemaRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(schemaRefPrefix+name, nil)
}

func parameterRef(name string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Ref: parameterRefPrefix + name}
}
