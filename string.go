package apischema

import (
	"errors"
	"regexp"
	"time"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// StringFormat is a well-known string format check. Its value is the
// OpenAPI format name emitted for it.
type StringFormat string

// Supported string formats.
const (
	FormatEmail    StringFormat = "email"
	FormatURI      StringFormat = "uri"
	FormatUUID     StringFormat = "uuid"
	FormatDateTime StringFormat = "date-time"
)

// StringChecks is the set of constraints declared on a string schema.
type StringChecks struct {
	MinLength *int
	MaxLength *int
	Pattern   *regexp.Regexp
	Format    StringFormat
}

// StringSchema describes a string value.
type StringSchema struct {
	base
	checks StringChecks
}

// String returns a schema accepting any string.
func String() *StringSchema {
	return &StringSchema{}
}

func (s *StringSchema) Kind() Kind { return KindString }

func (s *StringSchema) clone() Schema {
	c := *s
	return &c
}

// Checks returns the declared constraints.
func (s *StringSchema) Checks() StringChecks { return s.checks }

// Min requires at least n runes.
func (s *StringSchema) Min(n int) *StringSchema {
	s.checks.MinLength = &n
	return s
}

// Max allows at most n runes.
func (s *StringSchema) Max(n int) *StringSchema {
	s.checks.MaxLength = &n
	return s
}

// Length requires exactly n runes.
func (s *StringSchema) Length(n int) *StringSchema {
	return s.Min(n).Max(n)
}

// Regex requires the value to match re.
func (s *StringSchema) Regex(re *regexp.Regexp) *StringSchema {
	s.checks.Pattern = re
	return s
}

// Email requires an email address.
func (s *StringSchema) Email() *StringSchema { return s.format(FormatEmail) }

// URL requires an absolute URL.
func (s *StringSchema) URL() *StringSchema { return s.format(FormatURI) }

// UUID requires a UUID in canonical form.
func (s *StringSchema) UUID() *StringSchema { return s.format(FormatUUID) }

// Datetime requires an RFC 3339 timestamp.
func (s *StringSchema) Datetime() *StringSchema { return s.format(FormatDateTime) }

func (s *StringSchema) format(f StringFormat) *StringSchema {
	s.checks.Format = f
	return s
}

// OpenAPI attaches metadata to the schema.
func (s *StringSchema) OpenAPI(m Metadata) *StringSchema { return WithMetadata(s, m) }

// Optional wraps the schema so a missing value is accepted.
func (s *StringSchema) Optional() *WrappedSchema { return Optional(s) }

// Nullable wraps the schema so null is accepted.
func (s *StringSchema) Nullable() *WrappedSchema { return Nullable(s) }

func (s *StringSchema) Validate(value any) error {
	if err := notNil(value); err != nil {
		return err
	}
	str, ok := value.(string)
	if !ok {
		return errNotString
	}
	return validation.Validate(str, s.rules()...)
}

// rules translates the checks into ozzo rules. Length, Match and Date skip
// empty strings, so a positive minimum also adds Required.
func (s *StringSchema) rules() []validation.Rule {
	var rules []validation.Rule
	lo, hi := 0, 0
	if s.checks.MinLength != nil {
		lo = *s.checks.MinLength
	}
	if s.checks.MaxLength != nil {
		hi = *s.checks.MaxLength
	}
	if lo > 0 {
		rules = append(rules, validation.Required)
	}
	if lo > 0 || hi > 0 {
		rules = append(rules, validation.RuneLength(lo, hi))
	}
	if s.checks.Pattern != nil {
		rules = append(rules, validation.Match(s.checks.Pattern))
	}
	switch s.checks.Format {
	case FormatEmail:
		rules = append(rules, stringRule(govalidator.IsEmail, "must be a valid email address"))
	case FormatURI:
		rules = append(rules, stringRule(govalidator.IsURL, "must be a valid URL"))
	case FormatUUID:
		rules = append(rules, stringRule(func(v string) bool {
			_, err := uuid.Parse(v)
			return err == nil
		}, "must be a valid UUID"))
	case FormatDateTime:
		rules = append(rules, validation.Date(time.RFC3339).Error("must be a valid RFC 3339 date-time"))
	}
	return rules
}

func stringRule(check func(string) bool, desc string) validation.Rule {
	return validation.By(func(value any) error {
		v, _ := value.(string)
		if v == "" || check(v) {
			return nil
		}
		return errors.New(desc)
	})
}
