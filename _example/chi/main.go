// Command chi demonstrates apischema with a chi router.
//
// Run:
//
//	cd _example/chi && go run .
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
	"github.com/go-chi/chi/v5"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	var defs openapi.Definitions

	order := defs.Register("Order", apischema.Object(
		apischema.Field("customer_name", apischema.String().Min(1).Max(200)),
		apischema.Field("item_count", apischema.Number().Int().Min(1)),
		apischema.Field("total", apischema.Number().Min(0.01)),
	))
	orderID := apischema.Object(
		apischema.Field("id", apischema.String().UUID().OpenAPI(apischema.Metadata{Description: "Order id"})),
	)

	defs.Post("/orders", openapi.RouteDefinition{
		OperationID: "createOrder",
		Summary:     "Create an order",
		Request:     openapi.Request{Body: order},
		Response:    order,
	})
	defs.Get("/orders/{id}", openapi.RouteDefinition{
		OperationID: "getOrder",
		Request:     openapi.Request{Params: []apischema.Schema{orderID}},
		Response:    order,
	})

	doc, err := openapi.NewGenerator(defs.List()).
		GenerateDocument(openapi.DocBase("Example API (chi)", "Demonstrates apischema with chi", "0.1.0"))
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})

	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
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

	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		params := map[string]any{"id": chi.URLParam(r, "id")}
		if err := orderID.Validate(params); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	fmt.Println("Listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
