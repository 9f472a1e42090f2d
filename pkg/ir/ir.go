package ir

// SchemaKind discriminates SchemaNode variants.
type SchemaKind string

const (
	KindUnknown SchemaKind = "unknown"
	KindString  SchemaKind = "string"
	KindNumber  SchemaKind = "number"
	KindInteger SchemaKind = "integer"
	KindBoolean SchemaKind = "boolean"
	KindNull    SchemaKind = "null"
	KindArray   SchemaKind = "array"
	KindObject  SchemaKind = "object"
	KindEnum    SchemaKind = "enum"
	KindRef     SchemaKind = "ref"
	KindOneOf   SchemaKind = "oneOf"
	KindAnyOf   SchemaKind = "anyOf"
	KindAllOf   SchemaKind = "allOf"
)

// IsPrimitive reports whether k is one of the scalar kinds.
func (k SchemaKind) IsPrimitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindNull:
		return true
	}
	return false
}

// IsComposite reports whether k is oneOf, anyOf or allOf.
func (k SchemaKind) IsComposite() bool {
	return k == KindOneOf || k == KindAnyOf || k == KindAllOf
}

// SchemaNode is the canonical representation of one schema.
// Named nodes live in a Registry; inline nodes hang off their parents.
type SchemaNode struct {
	Kind SchemaKind

	// Name is the declared name of a registered node ("" for inline nodes)
	Name string
	// Path is the JSON pointer of the schema in the source document
	Path string

	Nullable    bool
	Format      string
	Description string
	Deprecated  bool

	// Enum
	Enum     []any
	EnumBase SchemaKind

	// Array
	Items *SchemaNode

	// Object
	Properties []Property
	Required   []string
	// AdditionalProperties is the value schema of a map; nil when absent
	AdditionalProperties *SchemaNode

	// Composites (oneOf, anyOf, allOf) in document order
	Members []*SchemaNode

	// Ref is the canonical ref path for KindRef nodes and for registered nodes
	Ref string
	// Target is the registered node a KindRef points to
	Target *SchemaNode

	// Reason explains why a node degraded to KindUnknown; empty for a plain "any" schema
	Reason string
}

// Property is a named member of an object schema.
type Property struct {
	Name     string
	Schema   *SchemaNode
	Required bool
}

// Deref follows reference nodes to the registered node they name.
// Chains stop after a bounded number of hops so unsafe cycles cannot spin.
func (n *SchemaNode) Deref() *SchemaNode {
	cur := n
	for i := 0; cur != nil && cur.Kind == KindRef && cur.Target != nil && i < 64; i++ {
		cur = cur.Target
	}
	return cur
}

// IsRequired reports whether name is listed in the node's required set.
func (n *SchemaNode) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Operation describes one callable operation (OperationDescriptor).
type Operation struct {
	// Name is the unique generated function name
	Name        string
	OperationID string
	Method      string
	Path        string
	Tags        []string
	Summary     string
	Description string
	Deprecated  bool

	PathParams   []Param
	QueryParams  []Param
	HeaderParams []Param

	// Body is nil when the operation takes no payload
	Body *Body
	// Response is nil when no success response schema exists
	Response       *SchemaNode
	ResponseStatus string
}

// Param is a path, query or header parameter.
type Param struct {
	// Name is the wire name
	Name string
	// Identifier is the name used in generated code
	Identifier  string
	Required    bool
	Schema      *SchemaNode
	Description string
}

// Body is a request payload.
type Body struct {
	Schema      *SchemaNode
	Required    bool
	ContentType string
}
