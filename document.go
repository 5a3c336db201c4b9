package apischema

// Kind identifies the variant of a schema node.
type Kind string

// Schema kinds. Optional and nullable wrappers share one concrete type,
// [WrappedSchema]; its Kind reports the outermost flag.
const (
	KindString       Kind = "string"
	KindNumber       Kind = "number"
	KindBoolean      Kind = "boolean"
	KindNull         Kind = "null"
	KindLiteral      Kind = "literal"
	KindEnum         Kind = "enum"
	KindNativeEnum   Kind = "native-enum"
	KindObject       Kind = "object"
	KindArray        Kind = "array"
	KindRecord       Kind = "record"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
	KindOptional     Kind = "optional"
	KindNullable     Kind = "nullable"
	KindUnknown      Kind = "unknown"
)

type (
	// Schema is one node of a schema tree. The set of implementations is
	// closed: every node type lives in this package, so consumers can switch
	// over the concrete types exhaustively.
	Schema interface {
		// Kind reports the node variant.
		Kind() Kind
		// Meta returns the metadata attached directly to this node, or nil.
		Meta() *Metadata
		// Validate checks a decoded JSON value against the node.
		Validate(value any) error

		node() *base
		clone() Schema
	}

	// Property is a named member of an object schema.
	Property struct {
		Name   string
		Schema Schema
	}

	base struct {
		meta *Metadata
	}
)

func (b *base) Meta() *Metadata { return b.meta }

func (b *base) node() *base { return b }

func (b *base) attach(m Metadata) {
	b.meta = b.meta.merge(m)
}

// Field binds a property name to its schema for use with [Object].
func Field(name string, s Schema) Property {
	return Property{Name: name, Schema: s}
}

// NameOf returns the registration name attached to s, if any.
func NameOf(s Schema) string {
	if s == nil {
		return ""
	}
	return s.Meta().name()
}
