package apischema

// WrappedSchema marks its inner node as optional, nullable, or both. It
// carries no structure of its own; metadata attached to a wrapper takes
// precedence over the inner node's when documenting it.
type WrappedSchema struct {
	base
	inner    Schema
	optional bool
	nullable bool
}

// Optional wraps s so a missing value is accepted.
func Optional(s Schema) *WrappedSchema {
	return &WrappedSchema{inner: s, optional: true}
}

// Nullable wraps s so null is accepted.
func Nullable(s Schema) *WrappedSchema {
	return &WrappedSchema{inner: s, nullable: true}
}

func (s *WrappedSchema) Kind() Kind {
	if s.optional {
		return KindOptional
	}
	return KindNullable
}

func (s *WrappedSchema) clone() Schema {
	c := *s
	return &c
}

// Inner returns the wrapped node, which may itself be a wrapper.
func (s *WrappedSchema) Inner() Schema { return s.inner }

// IsOptional reports whether this wrapper marks the value optional.
func (s *WrappedSchema) IsOptional() bool { return s.optional }

// IsNullable reports whether this wrapper marks the value nullable.
func (s *WrappedSchema) IsNullable() bool { return s.nullable }

// OpenAPI attaches metadata to the wrapper.
func (s *WrappedSchema) OpenAPI(m Metadata) *WrappedSchema { return WithMetadata(s, m) }

// Optional wraps the schema again so a missing value is accepted.
func (s *WrappedSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema again so null is accepted.
func (s *WrappedSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *WrappedSchema) Validate(value any) error {
	if value == nil {
		return nil
	}
	return s.inner.Validate(value)
}

// Unwrap peels every optional and nullable wrapper off s and reports
// whether any of them was optional or nullable.
func Unwrap(s Schema) (inner Schema, optional, nullable bool) {
	inner = s
	for {
		w, ok := inner.(*WrappedSchema)
		if !ok {
			return inner, optional, nullable
		}
		optional = optional || w.optional
		nullable = nullable || w.nullable
		inner = w.inner
	}
}

// IsOptional reports whether s is wrapped as optional at any depth.
func IsOptional(s Schema) bool {
	_, optional, _ := Unwrap(s)
	return optional
}

// IsNullable reports whether s is wrapped as nullable at any depth.
func IsNullable(s Schema) bool {
	_, _, nullable := Unwrap(s)
	return nullable
}
