package apischema

import validation "github.com/go-ozzo/ozzo-validation/v4"

// ValidationErrors maps property names (or array indexes) to their
// validation errors. It is an alias for [validation.Errors] from
// ozzo-validation and renders as a JSON-friendly string.
type ValidationErrors = validation.Errors
