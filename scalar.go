package apischema

import validation "github.com/go-ozzo/ozzo-validation/v4"

// BooleanSchema describes true or false.
type BooleanSchema struct{ base }

// Boolean returns a schema accepting a boolean.
func Boolean() *BooleanSchema { return &BooleanSchema{} }

func (s *BooleanSchema) Kind() Kind { return KindBoolean }

func (s *BooleanSchema) clone() Schema {
	c := *s
	return &c
}

// OpenAPI attaches metadata to the schema.
func (s *BooleanSchema) OpenAPI(m Metadata) *BooleanSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *BooleanSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *BooleanSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *BooleanSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	if _, ok := value.(bool); !ok {
		return errNotBoolean
	}
	return nil
}

// NullSchema accepts only null.
type NullSchema struct{ base }

// Null returns a schema accepting only null.
func Null() *NullSchema { return &NullSchema{} }

func (s *NullSchema) Kind() Kind { return KindNull }

func (s *NullSchema) clone() Schema {
	c := *s
	return &c
}

// OpenAPI attaches metadata to the schema.
func (s *NullSchema) OpenAPI(m Metadata) *NullSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *NullSchema) Optional() *WrappedSchema { return Optional(s) }

func (s *NullSchema) Validate(value any) error {
	return validation.Validate(value, validation.Nil)
}

// LiteralSchema accepts exactly one value.
type LiteralSchema struct {
	base
	value any
}

// Literal returns a schema accepting only v. Go numeric values are stored
// as float64 so they compare equal to decoded JSON numbers.
func Literal(v any) *LiteralSchema {
	return &LiteralSchema{value: normalizeValue(v)}
}

func (s *LiteralSchema) Kind() Kind { return KindLiteral }

func (s *LiteralSchema) clone() Schema {
	c := *s
	return &c
}

// Value returns the accepted value.
func (s *LiteralSchema) Value() any { return s.value }

// OpenAPI attaches metadata to the schema.
func (s *LiteralSchema) OpenAPI(m Metadata) *LiteralSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *LiteralSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *LiteralSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *LiteralSchema) Validate(value any) error {
	if s.value == nil {
		return validation.Validate(value, validation.Nil)
	}
	if err := notNil(value); err != nil {
		return err
	}
	return oneOf([]any{s.value}).Validate(normalizeValue(value))
}

// UnknownSchema accepts any value. It has no OpenAPI mapping of its own;
// documenting it requires a type override in its metadata.
type UnknownSchema struct{ base }

// Unknown returns a schema accepting any value.
func Unknown() *UnknownSchema { return &UnknownSchema{} }

func (s *UnknownSchema) Kind() Kind { return KindUnknown }

func (s *UnknownSchema) clone() Schema {
	c := *s
	return &c
}

// OpenAPI attaches metadata to the schema.
func (s *UnknownSchema) OpenAPI(m Metadata) *UnknownSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *UnknownSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *UnknownSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *UnknownSchema) Validate(any) error { return nil }
