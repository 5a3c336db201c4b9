package openapi

import (
	"errors"
	"fmt"

	"github.com/Gobd/apischema"
)

// Sentinel errors for use with errors.Is. Every generation failure matches
// exactly one of them and aborts the whole build.
var (
	// ErrConfigMissing indicates a full document was requested without a
	// usable document configuration.
	ErrConfigMissing = errors.New("document configuration missing")

	// ErrUnnamedParameter indicates a schema used as a parameter has no
	// resolvable name.
	ErrUnnamedParameter = errors.New("parameter name missing")

	// ErrUnsupportedSchemaKind indicates a schema node has no OpenAPI mapping
	// and no explicit type override.
	ErrUnsupportedSchemaKind = errors.New("unsupported schema kind")

	// ErrUnsupportedVersion indicates an OpenAPI version other than 3.0.x
	// or 3.1.x.
	ErrUnsupportedVersion = errors.New("unsupported OpenAPI version")
)

// UnsupportedSchemaKindError reports the kind of a node that could not be
// mapped.
type UnsupportedSchemaKindError struct {
	Kind apischema.Kind
}

// Error returns a human-readable error message.
func (e *UnsupportedSchemaKindError) Error() string {
	return fmt.Sprintf("unsupported schema kind %q: set a type override in its metadata to document it", e.Kind)
}

// Is reports whether target matches this error type.
func (e *UnsupportedSchemaKindError) Is(target error) bool {
	return target == ErrUnsupportedSchemaKind
}

// UnnamedParameterError reports a parameter schema with neither an external
// name nor a metadata name.
type UnnamedParameterError struct {
	Location Location
}

// Error returns a human-readable error message.
func (e *UnnamedParameterError) Error() string {
	return fmt.Sprintf("%s parameter has no name: attach metadata with a name or declare it inside an object", e.Location)
}

// Is reports whether target matches this error type.
func (e *UnnamedParameterError) Is(target error) bool {
	return target == ErrUnnamedParameter
}
