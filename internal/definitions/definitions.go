// Package definitions loads schema, parameter and route definitions from a
// YAML file.
//
// A definitions file has four optional top-level blocks:
//
//	document:
//	  openapi: 3.1.0
//	  title: Shop API
//	  version: 1.0.0
//	schemas:
//	  - name: Item
//	    kind: object
//	    properties:
//	      id: {kind: string, format: uuid}
//	      price: {kind: number, exclusiveMinimum: 0}
//	parameters:
//	  - name: limit
//	    in: query
//	    schema: {kind: integer, minimum: 1, optional: true}
//	routes:
//	  - method: get
//	    path: /items/{id}
//	    request:
//	      params: {kind: object, properties: {id: {kind: string}}}
//	    response: {ref: Item}
//
// A node with a ref reuses the named schema declared earlier in the file, so
// the generated document references the component instead of inlining it.
package definitions

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Gobd/apischema/openapi"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownKind is returned for a node whose kind is not recognized.
	ErrUnknownKind = errors.New("unknown schema kind")
	// ErrUnknownRef is returned for a ref to a schema not declared before it.
	ErrUnknownRef = errors.New("unknown schema ref")
)

// File is the parsed content of a definitions file.
type File struct {
	// Document is nil when the file has no document block.
	Document    *openapi.DocumentConfig
	Definitions []openapi.Definition
}

type (
	fileSpec struct {
		Document   *documentSpec   `yaml:"document"`
		Schemas    []nodeSpec      `yaml:"schemas"`
		Parameters []parameterSpec `yaml:"parameters"`
		Routes     []routeSpec     `yaml:"routes"`
	}

	documentSpec struct {
		OpenAPI     string       `yaml:"openapi"`
		Title       string       `yaml:"title"`
		Version     string       `yaml:"version"`
		Description string       `yaml:"description"`
		Servers     []serverSpec `yaml:"servers"`
		Tags        []tagSpec    `yaml:"tags"`
	}

	serverSpec struct {
		URL         string `yaml:"url"`
		Description string `yaml:"description"`
	}

	tagSpec struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}

	parameterSpec struct {
		Name   string    `yaml:"name"`
		In     string    `yaml:"in"`
		Schema *nodeSpec `yaml:"schema"`
	}

	routeSpec struct {
		Method      string      `yaml:"method"`
		Path        string      `yaml:"path"`
		Summary     string      `yaml:"summary"`
		Description string      `yaml:"description"`
		OperationID string      `yaml:"operationId"`
		Tags        []string    `yaml:"tags"`
		Deprecated  bool        `yaml:"deprecated"`
		Request     requestSpec `yaml:"request"`
		Response    *nodeSpec   `yaml:"response"`
	}

	requestSpec struct {
		Params  *nodeSpec  `yaml:"params"`
		Query   *nodeSpec  `yaml:"query"`
		Headers []nodeSpec `yaml:"headers"`
		Body    *nodeSpec  `yaml:"body"`
	}
)

var pathRe = regexp.MustCompile(`^/`)

func (d documentSpec) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Version, validation.Required),
	)
}

func (p parameterSpec) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.In, validation.Required, validation.In(
			string(openapi.LocationPath),
			string(openapi.LocationQuery),
			string(openapi.LocationHeader),
			string(openapi.LocationCookie),
		)),
		validation.Field(&p.Schema, validation.NotNil),
	)
}

func (r routeSpec) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Method, validation.Required, validation.In(
			"get", "put", "post", "delete", "options", "head", "patch", "trace",
		)),
		validation.Field(&r.Path, validation.Required, validation.Match(pathRe)),
	)
}

// Load reads and parses the definitions file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions %q: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("definitions %q: %w", path, err)
	}
	return f, nil
}

// Parse builds schema nodes and definitions from YAML data. Schemas are
// built in file order; a ref may only name a schema declared above it.
func Parse(data []byte) (*File, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	b := newBuilder()
	out := &File{}

	if spec.Document != nil {
		if err := spec.Document.Validate(); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		out.Document = spec.Document.config()
	}

	for i := range spec.Schemas {
		s := &spec.Schemas[i]
		if s.Name == "" {
			return nil, fmt.Errorf("schemas[%d]: name is required", i)
		}
		node, err := b.build(s, fmt.Sprintf("schemas[%d]", i))
		if err != nil {
			return nil, err
		}
		b.named[s.Name] = node
		out.Definitions = append(out.Definitions, openapi.SchemaDefinition{Schema: node})
	}

	for i, p := range spec.Parameters {
		path := fmt.Sprintf("parameters[%d]", i)
		p.In = strings.ToLower(strings.TrimSpace(p.In))
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if p.Schema.Ref != "" {
			return nil, fmt.Errorf("%s.schema: a parameter schema cannot be a ref", path)
		}
		if p.Schema.Name == "" {
			p.Schema.Name = p.Name
		}
		node, err := b.build(p.Schema, path+".schema")
		if err != nil {
			return nil, err
		}
		out.Definitions = append(out.Definitions, openapi.ParameterDefinition{
			Location: openapi.Location(p.In),
			Schema:   node,
		})
	}

	for i, r := range spec.Routes {
		def, err := b.route(r, fmt.Sprintf("routes[%d]", i))
		if err != nil {
			return nil, err
		}
		out.Definitions = append(out.Definitions, def)
	}

	return out, nil
}

func (d *documentSpec) config() *openapi.DocumentConfig {
	cfg := &openapi.DocumentConfig{
		OpenAPI: d.OpenAPI,
		Info: &openapi3.Info{
			Title:       d.Title,
			Version:     d.Version,
			Description: d.Description,
		},
	}
	for _, s := range d.Servers {
		cfg.Servers = append(cfg.Servers, &openapi3.Server{URL: s.URL, Description: s.Description})
	}
	for _, t := range d.Tags {
		cfg.Tags = append(cfg.Tags, &openapi3.Tag{Name: t.Name, Description: t.Description})
	}
	return cfg
}

func (b *builder) route(r routeSpec, path string) (openapi.RouteDefinition, error) {
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	if err := r.Validate(); err != nil {
		return openapi.RouteDefinition{}, fmt.Errorf("%s: %w", path, err)
	}

	def := openapi.RouteDefinition{
		Method:      r.Method,
		Path:        r.Path,
		Summary:     r.Summary,
		Description: r.Description,
		OperationID: r.OperationID,
		Tags:        r.Tags,
		Deprecated:  r.Deprecated,
	}

	var err error
	if def.Request.Params, err = b.optional(r.Request.Params, path+".request.params"); err != nil {
		return def, err
	}
	if def.Request.Query, err = b.optional(r.Request.Query, path+".request.query"); err != nil {
		return def, err
	}
	if def.Request.Body, err = b.optional(r.Request.Body, path+".request.body"); err != nil {
		return def, err
	}
	for i := range r.Request.Headers {
		h, err := b.build(&r.Request.Headers[i], fmt.Sprintf("%s.request.headers[%d]", path, i))
		if err != nil {
			return def, err
		}
		def.Request.Headers = append(def.Request.Headers, h)
	}
	if def.Response, err = b.optional(r.Response, path+".response"); err != nil {
		return def, err
	}
	return def, nil
}
