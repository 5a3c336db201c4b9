package openapi

import (
	"net/http"

	"github.com/Gobd/apischema"
)

// Definition is one entry of the definition list a [Generator] consumes:
// a [SchemaDefinition], a [ParameterDefinition] or a [RouteDefinition].
type Definition interface {
	definition()
}

// SchemaDefinition registers a standalone component schema. The schema
// must carry a metadata name.
type SchemaDefinition struct {
	Schema apischema.Schema
}

// ParameterDefinition registers a standalone component parameter bound to
// a location. The schema must carry a metadata name.
type ParameterDefinition struct {
	Location Location
	Schema   apischema.Schema
}

// RouteDefinition describes one operation.
type RouteDefinition struct {
	// Method is the HTTP verb, matched case-insensitively.
	Method string
	// Path uses OpenAPI template syntax, e.g. /items/{id}.
	Path        string
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Deprecated  bool
	Request     Request
	// Response documents the 200 response body. Nil means no body.
	Response apischema.Schema
}

// Request holds the request shapes of a route. Params and Query are object
// schemas whose properties become parameters; Headers are individually
// named schemas.
type Request struct {
	Params  apischema.Schema
	Query   apischema.Schema
	Headers []apischema.Schema
	Body    apischema.Schema
}

func (SchemaDefinition) definition()    {}
func (ParameterDefinition) definition() {}
func (RouteDefinition) definition()     {}

// Definitions collects definitions in registration order.
//
//	var defs openapi.Definitions
//	user := defs.Register("User", apischema.Object(...))
//	defs.RegisterPath(openapi.RouteDefinition{Method: "get", Path: "/me", Response: user})
//	doc, err := openapi.NewGenerator(defs.List()).GenerateDocument(cfg)
type Definitions struct {
	list []Definition
}

// Register names s, records it as a component schema and returns it so it
// can be referenced from other schemas.
func (d *Definitions) Register(name string, s apischema.Schema) apischema.Schema {
	s = apischema.WithMetadata(s, apischema.Metadata{Name: name})
	d.list = append(d.list, SchemaDefinition{Schema: s})
	return s
}

// RegisterParameter names s, records it as a component parameter at loc
// and returns it.
func (d *Definitions) RegisterParameter(name string, loc Location, s apischema.Schema) apischema.Schema {
	s = apischema.WithMetadata(s, apischema.Metadata{Name: name})
	d.list = append(d.list, ParameterDefinition{Location: loc, Schema: s})
	return s
}

// RegisterPath records a route.
func (d *Definitions) RegisterPath(route RouteDefinition) {
	d.list = append(d.list, route)
}

// Add appends already built definitions.
func (d *Definitions) Add(defs ...Definition) {
	d.list = append(d.list, defs...)
}

// List returns the definitions in registration order.
func (d *Definitions) List() []Definition {
	return d.list
}

// Get records route as a GET operation on path.
func (d *Definitions) Get(path string, route RouteDefinition) {
	d.method(http.MethodGet, path, route)
}

// Post records route as a POST operation on path.
func (d *Definitions) Post(path string, route RouteDefinition) {
	d.method(http.MethodPost, path, route)
}

// Put records route as a PUT operation on path.
func (d *Definitions) Put(path string, route RouteDefinition) {
	d.method(http.MethodPut, path, route)
}

// Patch records route as a PATCH operation on path.
func (d *Definitions) Patch(path string, route RouteDefinition) {
	d.method(http.MethodPatch, path, route)
}

// Delete records route as a DELETE operation on path.
func (d *Definitions) Delete(path string, route RouteDefinition) {
	d.method(http.MethodDelete, path, route)
}

func (d *Definitions) method(method, path string, route RouteDefinition) {
	route.Method = method
	route.Path = path
	d.RegisterPath(route)
}
