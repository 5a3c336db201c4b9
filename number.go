package apischema

import (
	"math"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CheckKind tells which side of a numeric range a check bounds.
type CheckKind string

// Numeric range sides.
const (
	CheckMin CheckKind = "min"
	CheckMax CheckKind = "max"
)

// NumberCheck is one numeric range bound.
type NumberCheck struct {
	Kind      CheckKind
	Value     float64
	Inclusive bool
}

// NumberSchema describes a numeric value. Checks are kept in declaration
// order; a later check on the same side replaces an earlier one.
type NumberSchema struct {
	base
	checks []NumberCheck
	isInt  bool
}

// Number returns a schema accepting any number.
func Number() *NumberSchema {
	return &NumberSchema{}
}

func (s *NumberSchema) Kind() Kind { return KindNumber }

func (s *NumberSchema) clone() Schema {
	c := *s
	c.checks = slices.Clip(s.checks)
	return &c
}

// Checks returns the range checks in declaration order.
func (s *NumberSchema) Checks() []NumberCheck { return s.checks }

// IsInt reports whether only whole numbers are accepted.
func (s *NumberSchema) IsInt() bool { return s.isInt }

// Int restricts the schema to whole numbers.
func (s *NumberSchema) Int() *NumberSchema {
	s.isInt = true
	return s
}

// Min requires value >= v.
func (s *NumberSchema) Min(v float64) *NumberSchema { return s.check(CheckMin, v, true) }

// Gt requires value > v.
func (s *NumberSchema) Gt(v float64) *NumberSchema { return s.check(CheckMin, v, false) }

// Max requires value <= v.
func (s *NumberSchema) Max(v float64) *NumberSchema { return s.check(CheckMax, v, true) }

// Lt requires value < v.
func (s *NumberSchema) Lt(v float64) *NumberSchema { return s.check(CheckMax, v, false) }

// Positive requires value > 0.
func (s *NumberSchema) Positive() *NumberSchema { return s.Gt(0) }

// Nonnegative requires value >= 0.
func (s *NumberSchema) Nonnegative() *NumberSchema { return s.Min(0) }

// Negative requires value < 0.
func (s *NumberSchema) Negative() *NumberSchema { return s.Lt(0) }

func (s *NumberSchema) check(kind CheckKind, v float64, inclusive bool) *NumberSchema {
	s.checks = append(s.checks, NumberCheck{Kind: kind, Value: v, Inclusive: inclusive})
	return s
}

// OpenAPI attaches metadata to the schema.
func (s *NumberSchema) OpenAPI(m Metadata) *NumberSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *NumberSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *NumberSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *NumberSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	if _, ok := value.(string); ok {
		return errNotNumber
	}
	f, err := toFloat(value)
	if err != nil {
		return errNotNumber
	}
	if s.isInt && f != math.Trunc(f) {
		return errNotInteger
	}

	// ozzo's ThresholdRule treats 0 as empty and skips it, so the bounds are
	// compared here and only the error values are shared with ozzo.
	for _, c := range s.bounds() {
		if err := c.validate(f); err != nil {
			return err
		}
	}
	return nil
}

// bounds returns the effective checks: the last one declared on each side.
func (s *NumberSchema) bounds() []NumberCheck {
	var lo, hi *NumberCheck
	for i := range s.checks {
		if s.checks[i].Kind == CheckMin {
			lo = &s.checks[i]
		} else {
			hi = &s.checks[i]
		}
	}
	out := make([]NumberCheck, 0, 2)
	for _, c := range []*NumberCheck{lo, hi} {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func (c NumberCheck) validate(f float64) error {
	var err validation.Error
	switch {
	case c.Kind == CheckMin && c.Inclusive && f < c.Value:
		err = validation.ErrMinGreaterEqualThanRequired
	case c.Kind == CheckMin && !c.Inclusive && f <= c.Value:
		err = validation.ErrMinGreaterThanRequired
	case c.Kind == CheckMax && c.Inclusive && f > c.Value:
		err = validation.ErrMaxLessEqualThanRequired
	case c.Kind == CheckMax && !c.Inclusive && f >= c.Value:
		err = validation.ErrMaxLessThanRequired
	default:
		return nil
	}
	return err.SetParams(map[string]any{"threshold": c.Value})
}
