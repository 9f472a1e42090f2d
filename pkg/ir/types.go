package ir

// ExprKind discriminates TypeExpr variants.
type ExprKind string

const (
	ExprUnknown   ExprKind = "unknown"
	ExprPrimitive ExprKind = "primitive"
	ExprLiteral   ExprKind = "literal"
	ExprNamed     ExprKind = "named"
	ExprArray     ExprKind = "array"
	ExprUnion     ExprKind = "union"
	ExprObject    ExprKind = "object"
	ExprMap       ExprKind = "map"
)

// Primitive target type names.
const (
	PrimString  = "string"
	PrimNumber  = "number"
	PrimBoolean = "boolean"
	PrimNull    = "null"
)

// TypeExpr is a target-language type expression.
type TypeExpr struct {
	Kind ExprKind

	// Primitive holds string, number, boolean or null
	Primitive string
	// Literal holds a string, float64, int or bool enum value
	Literal any
	// Ref is the registry ref of a named type; the emitted name comes from a NameTable
	Ref string

	// Elem is the array element or map value type
	Elem *TypeExpr
	// Members of a union in document order
	Members []*TypeExpr
	// Fields of an inline object
	Fields []Field
}

// Field is one member of an interface or inline object type.
type Field struct {
	Name        string
	Type        *TypeExpr
	Required    bool
	Description string
	Deprecated  bool
}

// DeclShape is the kind of declaration emitted for a named type.
type DeclShape string

const (
	ShapeInterface DeclShape = "interface"
	ShapeAlias     DeclShape = "alias"
	ShapeEnum      DeclShape = "enum"
	ShapeUnion     DeclShape = "union"
	ShapeArray     DeclShape = "array"
	ShapeMap       DeclShape = "map"
)

// TypeDecl is one emitted named type (TargetTypeDeclaration).
type TypeDecl struct {
	// Name is unique within a run
	Name string
	// Ref is the registry ref the declaration was produced from
	Ref   string
	Shape DeclShape

	// Fields and IndexSignature are used by ShapeInterface
	Fields         []Field
	IndexSignature *TypeExpr

	// Type is the right-hand side of every non-interface shape
	Type *TypeExpr

	Description string
	Deprecated  bool
}

// NameTable maps registry refs to emitted type names.
type NameTable map[string]string

// Unknown returns the escape-hatch type.
func Unknown() *TypeExpr { return &TypeExpr{Kind: ExprUnknown} }

// Prim returns a primitive type.
func Prim(name string) *TypeExpr { return &TypeExpr{Kind: ExprPrimitive, Primitive: name} }

// Named returns a reference to the named type registered under ref.
func Named(ref string) *TypeExpr { return &TypeExpr{Kind: ExprNamed, Ref: ref} }

// ArrayOf returns an array of elem.
func ArrayOf(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: ExprArray, Elem: elem} }

// MapOf returns a string-keyed map of elem.
func MapOf(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: ExprMap, Elem: elem} }

// Union returns the union of members, flattening nested unions and dropping
// repeated null members. A single member is returned as is.
func Union(members ...*TypeExpr) *TypeExpr {
	flat := make([]*TypeExpr, 0, len(members))
	hasNull := false
	for _, m := range members {
		if m == nil {
			continue
		}
		parts := []*TypeExpr{m}
		if m.Kind == ExprUnion {
			parts = m.Members
		}
		for _, p := range parts {
			if p.IsNull() {
				if hasNull {
					continue
				}
				hasNull = true
			}
			flat = append(flat, p)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &TypeExpr{Kind: ExprUnion, Members: flat}
}

// Nullable returns t | null.
func Nullable(t *TypeExpr) *TypeExpr { return Union(t, Prim(PrimNull)) }

// IsNull reports whether t is the null primitive.
func (t *TypeExpr) IsNull() bool {
	return t != nil && t.Kind == ExprPrimitive && t.Primitive == PrimNull
}

// Refs returns the registry refs t mentions, in first-seen order.
func (t *TypeExpr) Refs() []string {
	var out []string
	seen := map[string]bool{}
	var walk func(*TypeExpr)
	walk = func(e *TypeExpr) {
		if e == nil {
			return
		}
		if e.Kind == ExprNamed && !seen[e.Ref] {
			seen[e.Ref] = true
			out = append(out, e.Ref)
		}
		walk(e.Elem)
		for _, m := range e.Members {
			walk(m)
		}
		for _, f := range e.Fields {
			walk(f.Type)
		}
	}
	walk(t)
	return out
}
