package apischema

import (
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UnknownKeys is the policy an object schema applies to undeclared keys.
type UnknownKeys string

// Unknown-key policies. Strip is the default: undeclared keys are accepted
// and dropped by consumers.
const (
	UnknownKeysStrip       UnknownKeys = "strip"
	UnknownKeysStrict      UnknownKeys = "strict"
	UnknownKeysPassthrough UnknownKeys = "passthrough"
)

// ObjectSchema describes a JSON object with declared properties.
type ObjectSchema struct {
	base
	properties  []Property
	unknownKeys UnknownKeys
}

// Object returns an object schema with the given properties in
// declaration order.
//
//	apischema.Object(
//	    apischema.Field("id", apischema.String().UUID()),
//	    apischema.Field("note", apischema.String().Optional()),
//	)
func Object(props ...Property) *ObjectSchema {
	return &ObjectSchema{properties: props, unknownKeys: UnknownKeysStrip}
}

func (s *ObjectSchema) Kind() Kind { return KindObject }

func (s *ObjectSchema) clone() Schema {
	c := *s
	c.properties = slices.Clip(s.properties)
	return &c
}

// Properties returns the declared properties in declaration order.
func (s *ObjectSchema) Properties() []Property { return s.properties }

// UnknownKeys returns the policy for undeclared keys.
func (s *ObjectSchema) UnknownKeys() UnknownKeys { return s.unknownKeys }

// Property returns the schema declared for name.
func (s *ObjectSchema) Property(name string) (Schema, bool) {
	for _, p := range s.properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Strict rejects undeclared keys.
func (s *ObjectSchema) Strict() *ObjectSchema { return s.keys(UnknownKeysStrict) }

// Passthrough accepts and keeps undeclared keys.
func (s *ObjectSchema) Passthrough() *ObjectSchema { return s.keys(UnknownKeysPassthrough) }

// Strip accepts and drops undeclared keys.
func (s *ObjectSchema) Strip() *ObjectSchema { return s.keys(UnknownKeysStrip) }

func (s *ObjectSchema) keys(k UnknownKeys) *ObjectSchema {
	s.unknownKeys = k
	return s
}

// Extend returns a new object with props added after the existing ones. A
// property with an existing name replaces it in place. Metadata is not
// carried over.
func (s *ObjectSchema) Extend(props ...Property) *ObjectSchema {
	out := &ObjectSchema{
		properties:  append([]Property(nil), s.properties...),
		unknownKeys: s.unknownKeys,
	}
	for _, p := range props {
		replaced := false
		for i := range out.properties {
			if out.properties[i].Name == p.Name {
				out.properties[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out.properties = append(out.properties, p)
		}
	}
	return out
}

// OpenAPI attaches metadata to the schema.
func (s *ObjectSchema) OpenAPI(m Metadata) *ObjectSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *ObjectSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *ObjectSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *ObjectSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	m, ok := value.(map[string]any)
	if !ok {
		return errNotObject
	}

	errs := validation.Errors{}
	for _, p := range s.properties {
		if p.Schema == nil {
			continue
		}
		if err := p.Schema.Validate(m[p.Name]); err != nil {
			errs[p.Name] = err
		}
	}
	if s.unknownKeys == UnknownKeysStrict {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, declared := s.Property(k); !declared {
				errs[k] = errNotAllowed
			}
		}
	}
	return errs.Filter()
}

// RecordSchema describes an object with arbitrary string keys whose values
// all match one schema.
type RecordSchema struct {
	base
	value Schema
}

// Record returns a schema for a string-keyed map of value.
func Record(value Schema) *RecordSchema {
	return &RecordSchema{value: value}
}

func (s *RecordSchema) Kind() Kind { return KindRecord }

func (s *RecordSchema) clone() Schema {
	c := *s
	return &c
}

// ValueSchema returns the schema every value must match.
func (s *RecordSchema) ValueSchema() Schema { return s.value }

// OpenAPI attaches metadata to the schema.
func (s *RecordSchema) OpenAPI(m Metadata) *RecordSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *RecordSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *RecordSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *RecordSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	m, ok := value.(map[string]any)
	if !ok {
		return errNotObject
	}
	errs := validation.Errors{}
	for k, v := range m {
		if err := s.value.Validate(v); err != nil {
			errs[k] = err
		}
	}
	return errs.Filter()
}
