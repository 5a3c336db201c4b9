package apischema

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ArraySchema describes a JSON array whose elements all match one schema.
type ArraySchema struct {
	base
	element  Schema
	minItems *int
	maxItems *int
}

// Array returns a schema for a list of element.
func Array(element Schema) *ArraySchema {
	return &ArraySchema{element: element}
}

func (s *ArraySchema) Kind() Kind { return KindArray }

func (s *ArraySchema) clone() Schema {
	c := *s
	return &c
}

// Element returns the element schema.
func (s *ArraySchema) Element() Schema { return s.element }

// Bounds returns the declared minimum and maximum lengths; nil means unset.
func (s *ArraySchema) Bounds() (minItems, maxItems *int) { return s.minItems, s.maxItems }

// Min requires at least n elements.
func (s *ArraySchema) Min(n int) *ArraySchema {
	s.minItems = &n
	return s
}

// Max allows at most n elements.
func (s *ArraySchema) Max(n int) *ArraySchema {
	s.maxItems = &n
	return s
}

// Length requires exactly n elements.
func (s *ArraySchema) Length(n int) *ArraySchema { return s.Min(n).Max(n) }

// Nonempty requires at least one element.
func (s *ArraySchema) Nonempty() *ArraySchema { return s.Min(1) }

// OpenAPI attaches metadata to the schema.
func (s *ArraySchema) OpenAPI(m Metadata) *ArraySchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *ArraySchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *ArraySchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *ArraySchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return errNotArray
	}

	lo, hi := 0, 0
	if s.minItems != nil {
		lo = *s.minItems
	}
	if s.maxItems != nil {
		hi = *s.maxItems
	}
	var rules []validation.Rule
	if lo > 0 {
		rules = append(rules, validation.Required)
	}
	if lo > 0 || hi > 0 {
		rules = append(rules, validation.Length(lo, hi))
	}
	if err := validation.Validate(items, rules...); err != nil {
		return err
	}

	errs := validation.Errors{}
	for i, item := range items {
		if err := s.element.Validate(item); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	return errs.Filter()
}
