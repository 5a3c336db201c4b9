package apischema

import "slices"

// UnionSchema accepts a value matching any of its options.
type UnionSchema struct {
	base
	options []Schema
}

// Union returns a schema accepting a value that matches any option.
func Union(options ...Schema) *UnionSchema {
	return &UnionSchema{options: options}
}

func (s *UnionSchema) Kind() Kind { return KindUnion }

func (s *UnionSchema) clone() Schema {
	c := *s
	c.options = slices.Clip(s.options)
	return &c
}

// Options returns the alternatives in declaration order.
func (s *UnionSchema) Options() []Schema { return s.options }

// OpenAPI attaches metadata to the schema.
func (s *UnionSchema) OpenAPI(m Metadata) *UnionSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *UnionSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *UnionSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *UnionSchema) Validate(value any) error {
	for _, o := range s.options {
		if o.Validate(value) == nil {
			return nil
		}
	}
	return errNoOption
}

// IntersectionSchema accepts a value matching both of its members.
type IntersectionSchema struct {
	base
	left, right Schema
}

// Intersection returns a schema accepting values that match left and right.
func Intersection(left, right Schema) *IntersectionSchema {
	return &IntersectionSchema{left: left, right: right}
}

func (s *IntersectionSchema) Kind() Kind { return KindIntersection }

func (s *IntersectionSchema) clone() Schema {
	c := *s
	return &c
}

// Left returns the first member.
func (s *IntersectionSchema) Left() Schema { return s.left }

// Right returns the second member.
func (s *IntersectionSchema) Right() Schema { return s.right }

// OpenAPI attaches metadata to the schema.
func (s *IntersectionSchema) OpenAPI(m Metadata) *IntersectionSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *IntersectionSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *IntersectionSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *IntersectionSchema) Validate(value any) error {
	if err := s.left.Validate(value); err != nil {
		return err
	}
	return s.right.Validate(value)
}
