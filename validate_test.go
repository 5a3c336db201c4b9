package apischema_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	v "github.com/Gobd/apischema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Scalars ============

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		schema v.Schema
		value  any
		ok     bool
	}{
		{"plain", v.String(), "x", true},
		{"empty", v.String(), "", true},
		{"not a string", v.String(), 5.0, false},
		{"nil", v.String(), nil, false},
		{"min ok", v.String().Min(2), "ab", true},
		{"min short", v.String().Min(2), "a", false},
		{"min empty", v.String().Min(1), "", false},
		{"max ok", v.String().Max(3), "abc", true},
		{"max long", v.String().Max(3), "abcd", false},
		{"runes", v.String().Max(2), "ßü", true},
		{"length", v.String().Length(2), "abc", false},
		{"regex ok", v.String().Regex(regexp.MustCompile(`^[a-z]+$`)), "abc", true},
		{"regex fail", v.String().Regex(regexp.MustCompile(`^[a-z]+$`)), "ABC", false},
		{"email ok", v.String().Email(), "alice@example.com", true},
		{"email fail", v.String().Email(), "not-an-email", false},
		{"url ok", v.String().URL(), "https://example.com/x", true},
		{"url fail", v.String().URL(), "::", false},
		{"uuid ok", v.String().UUID(), "0d0e2f9a-4c1b-4b3e-9f55-9c3c8a6b1a2d", true},
		{"uuid fail", v.String().UUID(), "1234", false},
		{"datetime ok", v.String().Datetime(), "2024-01-02T03:04:05Z", true},
		{"datetime fail", v.String().Datetime(), "2024-01-02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestString_Checks(t *testing.T) {
	s := v.String().Min(1).Max(5).Email()
	c := s.Checks()
	require.NotNil(t, c.MinLength)
	require.NotNil(t, c.MaxLength)
	assert.Equal(t, 1, *c.MinLength)
	assert.Equal(t, 5, *c.MaxLength)
	assert.Equal(t, v.FormatEmail, c.Format)
	assert.Nil(t, c.Pattern)
	assert.Equal(t, v.KindString, s.Kind())
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		schema v.Schema
		value  any
		ok     bool
	}{
		{"float", v.Number(), 1.5, true},
		{"go int", v.Number(), 7, true},
		{"json number", v.Number(), json.Number("3.25"), true},
		{"string", v.Number(), "5", false},
		{"bool", v.Number(), true, false},
		{"nil", v.Number(), nil, false},
		{"int ok", v.Number().Int(), 4.0, true},
		{"int fraction", v.Number().Int(), 4.5, false},
		{"min zero", v.Number().Min(0), 0.0, true},
		{"min below", v.Number().Min(0), -1.0, false},
		{"gt zero", v.Number().Gt(0), 0.0, false},
		{"positive", v.Number().Positive(), 0.1, true},
		{"nonnegative", v.Number().Nonnegative(), 0.0, true},
		{"negative", v.Number().Negative(), 0.0, false},
		{"max equal", v.Number().Max(10), 10.0, true},
		{"lt equal", v.Number().Lt(10), 10.0, false},
		{"later min wins", v.Number().Min(5).Min(1), 2.0, true},
		{"later max wins", v.Number().Max(1).Max(5), 4.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNumber_Checks(t *testing.T) {
	s := v.Number().Int().Min(0).Lt(10)
	assert.True(t, s.IsInt())
	assert.Equal(t, []v.NumberCheck{
		{Kind: v.CheckMin, Value: 0, Inclusive: true},
		{Kind: v.CheckMax, Value: 10, Inclusive: false},
	}, s.Checks())
}

func TestNumber_ErrorMessage(t *testing.T) {
	err := v.Number().Min(3).Validate(1.0)
	require.Error(t, err)
	assert.Equal(t, "must be no less than 3", err.Error())

	err = v.Number().Lt(3).Validate(3.0)
	require.Error(t, err)
	assert.Equal(t, "must be less than 3", err.Error())
}

func TestBooleanAndNull(t *testing.T) {
	assert.NoError(t, v.Boolean().Validate(false))
	assert.Error(t, v.Boolean().Validate("true"))
	assert.Error(t, v.Boolean().Validate(nil))

	assert.NoError(t, v.Null().Validate(nil))
	assert.Error(t, v.Null().Validate("x"))
	assert.Equal(t, v.KindNull, v.Null().Kind())
}

func TestLiteral(t *testing.T) {
	assert.NoError(t, v.Literal("a").Validate("a"))
	assert.Error(t, v.Literal("a").Validate("b"))
	assert.NoError(t, v.Literal(5).Validate(5.0))
	assert.Equal(t, 5.0, v.Literal(5).Value())
	assert.NoError(t, v.Literal(true).Validate(true))
	assert.Error(t, v.Literal(true).Validate(false))
	assert.NoError(t, v.Literal(nil).Validate(nil))
	assert.Error(t, v.Literal(nil).Validate("x"))
	assert.Error(t, v.Literal("a").Validate(nil))
}

func TestEnum(t *testing.T) {
	s := v.Enum("red", "green")
	assert.NoError(t, s.Validate("green"))
	err := s.Validate("blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of 'red', 'green'")
	assert.Error(t, s.Validate(1.0))
	assert.Equal(t, []string{"red", "green"}, s.Values())
}

type status int

const (
	statusActive status = iota + 1
	statusClosed
)

func TestNativeEnum(t *testing.T) {
	s := v.NativeEnum(statusActive, statusClosed)
	assert.NoError(t, s.Validate(2.0))
	assert.NoError(t, s.Validate(statusActive))
	assert.Error(t, s.Validate(3.0))
	assert.Equal(t, []any{1.0, 2.0}, s.Values())

	mixed := v.NativeEnum("a", 1)
	assert.NoError(t, mixed.Validate("a"))
	assert.NoError(t, mixed.Validate(1.0))
}

func TestUnknown(t *testing.T) {
	for _, value := range []any{nil, "x", 1.0, map[string]any{}} {
		assert.NoError(t, v.Unknown().Validate(value))
	}
}

// ============ Objects ============

func TestObject(t *testing.T) {
	s := v.Object(
		v.Field("name", v.String().Min(1)),
		v.Field("age", v.Number().Int().Min(0).Optional()),
		v.Field("nick", v.String().Nullable()),
	)

	assert.NoError(t, s.Validate(map[string]any{"name": "Ann", "nick": nil}))
	assert.NoError(t, s.Validate(map[string]any{"name": "Ann", "age": 3.0, "nick": "a", "extra": 1.0}))
	assert.Error(t, s.Validate([]any{}))
	assert.Error(t, s.Validate(nil))

	err := s.Validate(map[string]any{"age": -1.0, "nick": 5.0})
	var errs v.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, "age: must be no less than 0; name: is required; nick: must be a string.", err.Error())
}

func TestObject_Strict(t *testing.T) {
	s := v.Object(v.Field("a", v.String())).Strict()
	assert.Equal(t, v.UnknownKeysStrict, s.UnknownKeys())

	err := s.Validate(map[string]any{"a": "x", "b": 1.0, "c": 2.0})
	var errs v.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "b: key not allowed; c: key not allowed.", err.Error())

	assert.NoError(t, s.Passthrough().Validate(map[string]any{"a": "x", "b": 1.0}))
	assert.Equal(t, v.UnknownKeysStrip, s.Strip().UnknownKeys())
}

func TestObject_Nested(t *testing.T) {
	s := v.Object(
		v.Field("address", v.Object(v.Field("city", v.String()))),
	)
	err := s.Validate(map[string]any{"address": map[string]any{"city": 1.0}})
	require.Error(t, err)
	assert.Equal(t, "address: (city: must be a string.).", err.Error())
}

func TestObject_Property(t *testing.T) {
	name := v.String()
	s := v.Object(v.Field("name", name))

	got, ok := s.Property("name")
	require.True(t, ok)
	assert.Same(t, name, got)

	_, ok = s.Property("missing")
	assert.False(t, ok)
}

func TestObject_Extend(t *testing.T) {
	base := v.Object(
		v.Field("a", v.String()),
		v.Field("b", v.String()),
	).Strict().OpenAPI(v.Metadata{Name: "Base"})

	ext := base.Extend(
		v.Field("b", v.Number()),
		v.Field("c", v.Boolean()),
	)

	names := make([]string, 0, 3)
	for _, p := range ext.Properties() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, v.KindNumber, ext.Properties()[1].Schema.Kind())
	assert.Equal(t, v.UnknownKeysStrict, ext.UnknownKeys())
	assert.Nil(t, ext.Meta())
	assert.Len(t, base.Properties(), 2)
}

func TestRecord(t *testing.T) {
	s := v.Record(v.Number())
	assert.NoError(t, s.Validate(map[string]any{"a": 1.0, "b": 2.0}))

	err := s.Validate(map[string]any{"a": 1.0, "b": "x"})
	var errs v.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "b")
	assert.NotContains(t, errs, "a")
	assert.Error(t, s.Validate("x"))
}

// ============ Arrays ============

func TestArray(t *testing.T) {
	s := v.Array(v.String())
	assert.NoError(t, s.Validate([]any{}))
	assert.NoError(t, s.Validate([]any{"a", "b"}))
	assert.Error(t, s.Validate("a"))

	err := s.Validate([]any{"a", 1.0})
	var errs v.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "1")

	assert.Error(t, v.Array(v.String()).Nonempty().Validate([]any{}))
	assert.Error(t, v.Array(v.String()).Max(1).Validate([]any{"a", "b"}))
	assert.NoError(t, v.Array(v.String()).Length(2).Validate([]any{"a", "b"}))

	lo, hi := v.Array(v.String()).Min(1).Max(3).Bounds()
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 1, *lo)
	assert.Equal(t, 3, *hi)
}

// ============ Composition ============

func TestUnion(t *testing.T) {
	s := v.Union(v.String(), v.Number())
	assert.NoError(t, s.Validate("x"))
	assert.NoError(t, s.Validate(1.0))
	err := s.Validate(true)
	require.Error(t, err)
	assert.Equal(t, "must match at least one option", err.Error())
	assert.Len(t, s.Options(), 2)
}

func TestIntersection(t *testing.T) {
	s := v.Intersection(
		v.Object(v.Field("a", v.String())),
		v.Object(v.Field("b", v.Number())),
	)
	assert.NoError(t, s.Validate(map[string]any{"a": "x", "b": 1.0}))
	assert.Error(t, s.Validate(map[string]any{"a": "x"}))
	assert.Error(t, s.Validate(map[string]any{"b": 1.0}))
	assert.Equal(t, v.KindObject, s.Left().Kind())
	assert.Equal(t, v.KindObject, s.Right().Kind())
}

func TestWrapped(t *testing.T) {
	opt := v.String().Optional()
	assert.NoError(t, opt.Validate(nil))
	assert.NoError(t, opt.Validate("x"))
	assert.Error(t, opt.Validate(1.0))
	assert.Equal(t, v.KindOptional, opt.Kind())

	both := v.String().Optional().Nullable()
	assert.Equal(t, v.KindNullable, both.Kind())

	inner, optional, nullable := v.Unwrap(both)
	assert.Equal(t, v.KindString, inner.Kind())
	assert.True(t, optional)
	assert.True(t, nullable)

	assert.True(t, v.IsOptional(both))
	assert.True(t, v.IsNullable(both))
	assert.False(t, v.IsOptional(v.String().Nullable()))
	assert.False(t, v.IsNullable(v.String()))
}

// ============ Metadata ============

func TestMetadata_Merge(t *testing.T) {
	s := v.Describe(v.String(), "first")
	s = s.OpenAPI(v.Metadata{Title: "T", Extensions: map[string]any{"x-a": 1}})
	s = s.OpenAPI(v.Metadata{Description: "second", Extensions: map[string]any{"x-b": 2}})

	m := s.Meta()
	require.NotNil(t, m)
	assert.Equal(t, "second", m.Description)
	assert.Equal(t, "T", m.Title)
	assert.Equal(t, map[string]any{"x-a": 1, "x-b": 2}, m.Extensions)
}

func TestWithMetadata_LeavesOriginal(t *testing.T) {
	id := v.String().UUID()
	user := v.Describe(id, "user id")
	order := v.Describe(id, "order id")

	assert.Nil(t, id.Meta())
	assert.Equal(t, "user id", user.Meta().Description)
	assert.Equal(t, "order id", order.Meta().Description)
	assert.Equal(t, v.FormatUUID, user.Checks().Format)

	named := v.WithMetadata(user, v.Metadata{Name: "UserID"})
	assert.Equal(t, "UserID", v.NameOf(named))
	assert.Equal(t, "user id", named.Meta().Description)
	assert.Equal(t, "", v.NameOf(user))
}

func TestWithMetadata_CopyKeepsBuilderState(t *testing.T) {
	n := v.Number().Min(0)
	a := n.OpenAPI(v.Metadata{Title: "a"}).Max(5)
	b := n.OpenAPI(v.Metadata{Title: "b"}).Max(9)

	assert.Len(t, n.Checks(), 1)
	assert.Equal(t, 5.0, a.Checks()[1].Value)
	assert.Equal(t, 9.0, b.Checks()[1].Value)

	var s v.Schema = v.Object(v.Field("x", v.String()))
	wrapped := v.WithMetadata(s, v.Metadata{Name: "Obj"})
	assert.IsType(t, &v.ObjectSchema{}, wrapped)
	assert.Nil(t, s.Meta())
}

func TestMetadata_ExtensionsCopied(t *testing.T) {
	ext := map[string]any{"x-a": 1}
	s := v.String().OpenAPI(v.Metadata{Extensions: ext})
	ext["x-b"] = 2
	assert.Equal(t, map[string]any{"x-a": 1}, s.Meta().Extensions)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "", v.NameOf(nil))
	assert.Equal(t, "", v.NameOf(v.String()))
	assert.Equal(t, "Id", v.NameOf(v.String().OpenAPI(v.Metadata{Name: "Id"})))

	// A wrapper carries its own metadata.
	wrapped := v.String().OpenAPI(v.Metadata{Name: "Id"}).Optional()
	assert.Equal(t, "", v.NameOf(wrapped))
}

// ============ Decoding ============

func TestUnmarshalAndValidate(t *testing.T) {
	s := v.Object(v.Field("name", v.String()))

	got, err := v.UnmarshalAndValidate([]byte(`{"name":"Ann"}`), s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ann"}, got)

	got, err = v.UnmarshalAndValidate([]byte(`{"name":1}`), s)
	require.Error(t, err)
	assert.Equal(t, map[string]any{"name": 1.0}, got)

	_, err = v.UnmarshalAndValidate([]byte(`{`), s)
	var syntax *json.SyntaxError
	assert.ErrorAs(t, err, &syntax)
}

func TestDecodeAndValidate(t *testing.T) {
	s := v.Array(v.Number().Int())

	got, err := v.DecodeAndValidate(strings.NewReader(`[1, 2, 3]`), s)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, got)

	_, err = v.DecodeAndValidate(strings.NewReader(`[1.5]`), s)
	assert.Error(t, err)

	_, err = v.DecodeAndValidate(strings.NewReader(``), s)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, v.Validate(v.String(), "x"))
	assert.Error(t, v.Validate(v.String(), 1.0))
}
