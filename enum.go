package apischema

// EnumSchema accepts one of a fixed list of strings.
type EnumSchema struct {
	base
	values []string
}

// Enum returns a schema accepting one of values.
func Enum(values ...string) *EnumSchema {
	return &EnumSchema{values: values}
}

func (s *EnumSchema) Kind() Kind { return KindEnum }

func (s *EnumSchema) clone() Schema {
	c := *s
	return &c
}

// Values returns the allowed values in declaration order.
func (s *EnumSchema) Values() []string { return s.values }

// OpenAPI attaches metadata to the schema.
func (s *EnumSchema) OpenAPI(m Metadata) *EnumSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *EnumSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *EnumSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *EnumSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	if _, ok := value.(string); !ok {
		return errNotString
	}
	allowed := make([]any, len(s.values))
	for i, v := range s.values {
		allowed[i] = v
	}
	return oneOf(allowed).Validate(value)
}

// NativeEnumSchema accepts one of the values of a Go enumeration, such as
// the constants of a named string or integer type.
//
//	type Status int
//
//	const (
//	    StatusActive Status = iota
//	    StatusClosed
//	)
//
//	apischema.NativeEnum(StatusActive, StatusClosed)
type NativeEnumSchema struct {
	base
	values []any
}

// NativeEnum returns a schema accepting one of values. Numeric values are
// stored as float64.
func NativeEnum(values ...any) *NativeEnumSchema {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = normalizeValue(v)
	}
	return &NativeEnumSchema{values: out}
}

func (s *NativeEnumSchema) Kind() Kind { return KindNativeEnum }

func (s *NativeEnumSchema) clone() Schema {
	c := *s
	return &c
}

// Values returns the allowed values in declaration order.
func (s *NativeEnumSchema) Values() []any { return s.values }

// OpenAPI attaches metadata to the schema.
func (s *NativeEnumSchema) OpenAPI(m Metadata) *NativeEnumSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *NativeEnumSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *NativeEnumSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *NativeEnumSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	return oneOf(s.values).Validate(normalizeValue(value))
}
