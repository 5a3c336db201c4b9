// Package openapi generates OpenAPI 3.0 and 3.1 documents from
// [apischema.Schema] trees.
//
// Collect definitions, then hand them to a [Generator]:
//
//	var defs openapi.Definitions
//	item := defs.Register("Item", apischema.Object(
//	    apischema.Field("name", apischema.String().Min(1)),
//	))
//	defs.Post("/items", openapi.RouteDefinition{
//	    Request:  openapi.Request{Body: item},
//	    Response: item,
//	})
//	doc, err := openapi.NewGenerator(defs.List()).
//	    GenerateDocument(openapi.DocBase("Shop API", "Example API", "1.0.0"))
//
// A schema carrying a metadata name is stored once under
// components.schemas and referenced everywhere after its first
// registration. Names are unique per generation: a second, different schema
// with a name already in use is emitted as a reference to the first.
//
// The encoding of nullable values and exclusive bounds depends on the
// target version; see [Specifics].
package openapi
