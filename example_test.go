package apischema_test

import (
	"fmt"
	"strings"

	v "github.com/Gobd/apischema"
)

var user = v.Object(
	v.Field("name", v.String().Min(1).Max(100)),
	v.Field("email", v.String().Email()),
	v.Field("age", v.Number().Int().Min(0).Max(150).Optional()),
).OpenAPI(v.Metadata{Name: "User"})

func ExampleValidate() {
	err := v.Validate(user, map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
		"age":   30.0,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("valid")
	// Output: valid
}

func ExampleValidate_error() {
	err := v.Validate(user, map[string]any{"age": -1.0})
	fmt.Println(err)
	// Output: age: must be no less than 0; email: is required; name: is required.
}

func ExampleUnmarshalAndValidate() {
	body := []byte(`{"name":"Bob","email":"bob@example.com","age":25}`)
	decoded, err := v.UnmarshalAndValidate(body, user)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(decoded.(map[string]any)["name"])
	// Output: Bob
}

func ExampleDecodeAndValidate() {
	body := strings.NewReader(`{"name":"","email":"nope"}`)
	_, err := v.DecodeAndValidate(body, user)
	fmt.Println(err)
	// Output: email: must be a valid email address; name: cannot be blank.
}

func ExampleObjectSchema_Strict() {
	point := v.Object(
		v.Field("x", v.Number()),
		v.Field("y", v.Number()),
	).Strict()

	fmt.Println(point.Validate(map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}))
	// Output: z: key not allowed.
}

func ExampleUnion() {
	id := v.Union(v.String().UUID(), v.Number().Int().Positive())
	fmt.Println(id.Validate(42.0) == nil)
	fmt.Println(id.Validate(-1.0))
	// Output:
	// true
	// must match at least one option
}

func ExampleUnwrap() {
	inner, optional, nullable := v.Unwrap(v.String().Optional().Nullable())
	fmt.Println(inner.Kind(), optional, nullable)
	// Output: string true true
}
