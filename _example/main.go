// Command example demonstrates apischema with an HTTP server serving the
// generated OpenAPI document and a validated JSON endpoint.
//
// Run:
//
//	go run ./_example
//
// Then fetch http://localhost:8080/openapi.json.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Gobd/apischema"
	"github.com/Gobd/apischema/openapi"
)

// ErrorResponse is a standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	var defs openapi.Definitions

	order := defs.Register("Order", apischema.Object(
		apischema.Field("customer_name", apischema.String().Min(1).Max(200)),
		apischema.Field("item_count", apischema.Number().Int().Min(1)),
		apischema.Field("total", apischema.Number().Min(0.01)),
		apischema.Field("note", apischema.String().Optional()),
	).OpenAPI(apischema.Metadata{Description: "A customer order"}))

	defs.Post("/orders", openapi.RouteDefinition{
		OperationID: "createOrder",
		Summary:     "Create an order",
		Request:     openapi.Request{Body: order},
		Response:    order,
	})

	doc, err := openapi.NewGenerator(defs.List()).
		GenerateDocument(openapi.DocBase("Example API", "Demonstrates apischema", "0.1.0"))
	if err != nil {
		log.Fatal(err)
	}

	http.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})

	http.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := apischema.DecodeAndValidate(r.Body, order)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	fmt.Println("Listening on http://localhost:8080")
	fmt.Println("Document: http://localhost:8080/openapi.json")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
