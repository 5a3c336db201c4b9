package openapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobd/apischema"
	"github.com/getkin/kin-openapi/openapi3"
)

// DocumentConfig carries the document-level fields of a generated document.
// Servers, Security, Tags and ExternalDocs are copied through unchanged.
type DocumentConfig struct {
	// OpenAPI is the version string, e.g. "3.0.0" or "3.1.0". It also selects
	// the encoding unless the generator was built with [WithSpecifics].
	OpenAPI      string
	Info         *openapi3.Info
	Servers      openapi3.Servers
	Security     openapi3.SecurityRequirements
	Tags         openapi3.Tags
	ExternalDocs *openapi3.ExternalDocs
}

// DocBase returns a 3.0 document configuration with the given info fields.
func DocBase(title, description, version string) *DocumentConfig {
	return &DocumentConfig{
		OpenAPI: V30().OpenAPIVersion(),
		Info: &openapi3.Info{
			Title:       title,
			Description: description,
			Version:     version,
		},
	}
}

func (c *DocumentConfig) validate() error {
	switch {
	case c == nil:
		return ErrConfigMissing
	case strings.TrimSpace(c.OpenAPI) == "":
		return fmt.Errorf("%w: openapi version is empty", ErrConfigMissing)
	case c.Info == nil:
		return fmt.Errorf("%w: info is nil", ErrConfigMissing)
	case c.Info.Title == "":
		return fmt.Errorf("%w: info.title is empty", ErrConfigMissing)
	case c.Info.Version == "":
		return fmt.Errorf("%w: info.version is empty", ErrConfigMissing)
	}
	return nil
}

// Option configures a [Generator].
type Option func(*Generator)

// WithSpecifics fixes the version encoding instead of deriving it from
// [DocumentConfig.OpenAPI].
func WithSpecifics(s Specifics) Option {
	return func(g *Generator) { g.specifics = s }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Generator turns a definition list into an OpenAPI document or its
// components. Every Generate call starts with empty registries, so a
// generator can be reused, but not from several goroutines at once.
type Generator struct {
	defs      []Definition
	specifics Specifics
	logger    Logger
}

// NewGenerator returns a generator over defs. Definitions are processed in
// order; the first schema or parameter registered under a name wins.
func NewGenerator(defs []Definition, opts ...Option) *Generator {
	g := &Generator{
		defs:   defs,
		logger: NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateDocument builds a complete document. It fails with
// [ErrConfigMissing] when cfg lacks the version, title or info version, and
// with [ErrUnsupportedVersion] when the version is not 3.0.x or 3.1.x and no
// encoding was set through [WithSpecifics].
func (g *Generator) GenerateDocument(cfg *DocumentConfig) (*openapi3.T, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	specifics := g.specifics
	if specifics == nil {
		var err error
		if specifics, err = ParseVersion(cfg.OpenAPI); err != nil {
			return nil, err
		}
	}
	m, err := g.run(specifics)
	if err != nil {
		return nil, err
	}

	doc := &openapi3.T{
		OpenAPI:      cfg.OpenAPI,
		Info:         cfg.Info,
		Servers:      cfg.Servers,
		Security:     cfg.Security,
		Tags:         cfg.Tags,
		ExternalDocs: cfg.ExternalDocs,
		Components:   m.refs.components(),
		Paths:        m.refs.paths,
	}
	g.logger.Info("generated document",
		"openapi", doc.OpenAPI,
		"schemas", len(doc.Components.Schemas),
		"parameters", len(doc.Components.Parameters),
		"paths", doc.Paths.Len(),
	)
	return doc, nil
}

// GenerateComponents builds only the component schemas and parameters.
// Route definitions are still processed, so schemas they register appear,
// but no document configuration is needed.
func (g *Generator) GenerateComponents() (*openapi3.Components, error) {
	specifics := g.specifics
	if specifics == nil {
		specifics = V30()
	}
	m, err := g.run(specifics)
	if err != nil {
		return nil, err
	}
	return m.refs.components(), nil
}

func (g *Generator) run(specifics Specifics) (*mapper, error) {
	m := newMapper(specifics, g.logger)
	for i, def := range g.defs {
		if err := m.addDefinition(def); err != nil {
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
	}
	return m, nil
}

func (m *mapper) addDefinition(def Definition) error {
	switch d := def.(type) {
	case SchemaDefinition:
		return m.addSchemaDefinition(d)
	case *SchemaDefinition:
		return m.addSchemaDefinition(*d)
	case ParameterDefinition:
		return m.addParameterDefinition(d)
	case *ParameterDefinition:
		return m.addParameterDefinition(*d)
	case RouteDefinition:
		return m.addRoute(d)
	case *RouteDefinition:
		return m.addRoute(*d)
	default:
		return fmt.Errorf("unknown definition type %T", def)
	}
}

func (m *mapper) addSchemaDefinition(d SchemaDefinition) error {
	name := apischema.NameOf(d.Schema)
	if d.Schema == nil || name == "" {
		m.logger.Warn("skipping schema definition without a name")
		return nil
	}
	if _, err := m.mapSchema(d.Schema, true, true); err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	return nil
}

func (m *mapper) addParameterDefinition(d ParameterDefinition) error {
	if !d.Location.Valid() {
		return fmt.Errorf("parameter %s: invalid location %q", apischema.NameOf(d.Schema), d.Location)
	}
	if d.Schema == nil {
		return &UnnamedParameterError{Location: d.Location}
	}
	_, err := m.mapParameter(d.Schema, d.Location, true, "")
	return err
}

func (m *mapper) addRoute(d RouteDefinition) error {
	method := strings.ToUpper(d.Method)
	op, err := m.operation(d)
	if err != nil {
		return fmt.Errorf("route %s %s: %w", method, d.Path, err)
	}
	if err := addPath(m.refs.paths, d.Path, method, op); err != nil {
		return fmt.Errorf("route %s %s: %w", method, d.Path, err)
	}
	m.logger.Debug("added route", "method", method, "path", d.Path)
	return nil
}

func (m *mapper) operation(d RouteDefinition) (*openapi3.Operation, error) {
	op := &openapi3.Operation{
		OperationID: d.OperationID,
		Summary:     d.Summary,
		Description: d.Description,
		Tags:        d.Tags,
		Deprecated:  d.Deprecated,
		Parameters:  openapi3.Parameters{},
	}

	for _, c := range []struct {
		schema apischema.Schema
		loc    Location
	}{
		{d.Request.Params, LocationPath},
		{d.Request.Query, LocationQuery},
	} {
		params, err := m.mapParameterContainer(c.schema, c.loc)
		if err != nil {
			return nil, err
		}
		op.Parameters = append(op.Parameters, params...)
	}
	for _, h := range d.Request.Headers {
		if h == nil {
			continue
		}
		p, err := m.mapParameter(h, LocationHeader, false, "")
		if err != nil {
			return nil, err
		}
		op.Parameters = append(op.Parameters, p)
	}

	if d.Request.Body != nil {
		body, err := m.requestBody(d.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		op.RequestBody = body
	}

	resp, err := m.response(d.Response)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	op.Responses = openapi3.NewResponses(openapi3.WithName("200", resp))
	return op, nil
}

func (m *mapper) requestBody(s apischema.Schema) (*openapi3.RequestBodyRef, error) {
	schema, err := m.mapSchema(s, false, true)
	if err != nil {
		return nil, err
	}
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Description: description(s),
			Required:    true,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	}, nil
}

func (m *mapper) response(s apischema.Schema) (*openapi3.Response, error) {
	desc := description(s)
	resp := &openapi3.Response{Description: &desc}
	if s == nil {
		return resp, nil
	}
	schema, err := m.mapSchema(s, false, true)
	if err != nil {
		return nil, err
	}
	resp.Content = openapi3.NewContentWithJSONSchemaRef(schema)
	return resp, nil
}

// description returns the metadata description of s, looking through
// wrappers the same way the mapper does.
func description(s apischema.Schema) string {
	if s == nil {
		return ""
	}
	inner, _, _ := apischema.Unwrap(s)
	if meta := resolveMetadata(s, inner); meta != nil {
		return meta.Description
	}
	return ""
}

var errUnknownMethod = errors.New("unknown HTTP method")

// addPath sets op on the path item for path, keeping the operations other
// methods already registered there.
func addPath(paths *openapi3.Paths, path, method string, op *openapi3.Operation) error {
	p := paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}

	switch method {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPatch:
		p.Patch = op
	case http.MethodDelete:
		p.Delete = op
	case http.MethodHead:
		p.Head = op
	case http.MethodOptions:
		p.Options = op
	case http.MethodTrace:
		p.Trace = op
	default:
		return fmt.Errorf("%w %q", errUnknownMethod, method)
	}

	paths.Set(path, p)
	return nil
}
