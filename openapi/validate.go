package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const componentsResource = "components.json"

// ValidateDocument checks a generated document. 3.0 documents are reloaded
// and checked by the kin-openapi validator. For 3.1 documents the info
// block is checked and every component schema is compiled as JSON Schema
// 2020-12.
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if SpecificsFor(doc.OpenAPI).OpenAPIVersion() == V31().OpenAPIVersion() {
		return validate31(doc)
	}

	// Reload through the kin loader so component references resolve.
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	// Metadata extensions are emitted without an x- prefix.
	var opts []openapi3.ValidationOption
	if keys := extensionKeys(doc); len(keys) > 0 {
		opts = append(opts, openapi3.AllowExtraSiblingFields(keys...))
	}
	return loaded.Validate(ctx, opts...)
}

func validate31(doc *openapi3.T) error {
	if doc.Info == nil || doc.Info.Title == "" || doc.Info.Version == "" {
		return errors.New("invalid info: title and version are required")
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil
	}
	return compileComponents(doc.Components.Schemas)
}

// compileComponents loads the schemas as the $defs of one resource, so
// component references resolve inside it, then compiles each definition.
func compileComponents(schemas openapi3.Schemas) error {
	raw, err := json.Marshal(map[string]any{"$defs": schemas})
	if err != nil {
		return fmt.Errorf("encode component schemas: %w", err)
	}
	raw = bytes.ReplaceAll(raw, []byte(`"`+schemaRefPrefix), []byte(`"#/$defs/`))

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(componentsResource, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("load component schemas: %w", err)
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		if _, err := compiler.Compile(componentsResource + "#/$defs/" + escapePointer(name)); err != nil {
			errs = append(errs, fmt.Errorf("schema %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

// extensionKeys lists the non x- extension keys used by any schema in doc.
func extensionKeys(doc *openapi3.T) []string {
	seen := map[*openapi3.Schema]bool{}
	keys := map[string]struct{}{}

	var walk func(ref *openapi3.SchemaRef)
	walk = func(ref *openapi3.SchemaRef) {
		if ref == nil || ref.Value == nil || seen[ref.Value] {
			return
		}
		s := ref.Value
		seen[s] = true
		for k := range s.Extensions {
			if !strings.HasPrefix(k, "x-") {
				keys[k] = struct{}{}
			}
		}
		for _, p := range s.Properties {
			walk(p)
		}
		walk(s.Items)
		walk(s.AdditionalProperties.Schema)
		for _, group := range []openapi3.SchemaRefs{s.AnyOf, s.AllOf, s.OneOf} {
			for _, r := range group {
				walk(r)
			}
		}
	}

	if doc.Components != nil {
		for _, s := range doc.Components.Schemas {
			walk(s)
		}
		for _, p := range doc.Components.Parameters {
			if p.Value != nil {
				walk(p.Value.Schema)
			}
		}
	}
	if doc.Paths != nil {
		for _, item := range doc.Paths.Map() {
			for _, op := range item.Operations() {
				for _, p := range op.Parameters {
					if p.Value != nil {
						walk(p.Value.Schema)
					}
				}
				if op.RequestBody != nil && op.RequestBody.Value != nil {
					for _, mt := range op.RequestBody.Value.Content {
						walk(mt.Schema)
					}
				}
				if op.Responses != nil {
					for _, r := range op.Responses.Map() {
						if r.Value == nil {
							continue
						}
						for _, mt := range r.Value.Content {
							walk(mt.Schema)
						}
					}
				}
			}
		}
	}

	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
