package apischema

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errNotString  = validation.NewError("validation_is_string", "must be a string")
	errNotNumber  = validation.NewError("validation_is_number", "must be a number")
	errNotInteger = validation.NewError("validation_is_integer", "must be an integer")
	errNotBoolean = validation.NewError("validation_is_boolean", "must be a boolean")
	errNotObject  = validation.NewError("validation_is_object", "must be an object")
	errNotArray   = validation.NewError("validation_is_array", "must be an array")
	errNotAllowed = validation.NewError("validation_key_not_allowed", "key not allowed")
	errNoOption   = validation.NewError("validation_union", "must match at least one option")
)

// Validate checks value against s. Values are expected in the shape
// produced by encoding/json decoding into an any.
func Validate(s Schema, value any) error {
	return s.Validate(value)
}

// UnmarshalAndValidate decodes JSON from b, then validates the result
// against s. The decoded value is returned even when validation fails.
func UnmarshalAndValidate(b []byte, s Schema) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, s.Validate(v)
}

// DecodeAndValidate reads JSON from r using a streaming decoder, then
// validates. Use this instead of [UnmarshalAndValidate] when reading
// directly from an [io.Reader] such as an HTTP request body.
func DecodeAndValidate(r io.Reader, s Schema) (any, error) {
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, s.Validate(v)
}

// notNil rejects a missing or null value. Wrappers accept nil before the
// inner node is consulted, so every other node treats nil as an error.
func notNil(value any) error {
	return validation.Validate(value, validation.NotNil)
}

// oneOf checks membership like ozzo's In rule, but also rejects empty
// values missing from the allowed set; In alone treats them as valid.
func oneOf(values []any) validation.Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	msg := fmt.Sprintf("must be one of %s", strings.Join(want, ", "))

	return validation.By(func(value any) error {
		for _, v := range values {
			if v == value {
				return nil
			}
		}
		return fmt.Errorf("%s got '%v'", msg, value)
	})
}

var floatType = reflect.TypeOf(float64(0))

// toFloat converts numeric values, including json.Number, to float64.
func toFloat(unk any) (float64, error) {
	if n, ok := unk.(json.Number); ok {
		return strconv.ParseFloat(n.String(), 64)
	}
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.IsValid() {
		return 0, fmt.Errorf("cannot convert %v to float64", unk)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.Convert(floatType).Float(), nil
	}
	return 0, fmt.Errorf("cannot convert %v to float64", v.Type())
}

// normalizeValue turns Go numeric values into float64 so they compare equal
// to numbers decoded from JSON. Other values are returned unchanged.
func normalizeValue(v any) any {
	if _, ok := v.(string); ok {
		return v
	}
	if f, err := toFloat(v); err == nil {
		return f
	}
	return v
}
