// Package apischema provides runtime schema descriptions that validate
// decoded JSON values and can be documented as OpenAPI 3 schemas.
//
// Build schemas with the fluent constructors:
//
//	user := apischema.Object(
//	    apischema.Field("id", apischema.String().UUID()),
//	    apischema.Field("age", apischema.Number().Int().Min(0).Optional()),
//	).OpenAPI(apischema.Metadata{Name: "User", Description: "A registered user"})
//
// Then validate with a single call:
//
//	err := user.Validate(decoded)
//
// For HTTP handlers, [UnmarshalAndValidate] and [DecodeAndValidate] combine
// JSON decoding with validation in one step.
//
// The node types form a closed set, one per [Kind]. Optional and nullable
// markers are [WrappedSchema] nodes around the described node; use [Unwrap]
// to reach the structure underneath.
//
// Sub-packages:
//   - openapi – OpenAPI schema, parameter and document generation
package apischema
