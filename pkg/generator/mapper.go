package generator

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/ir"
	"github.com/blimu-dev/swagger-gen/pkg/utils"
)

// reservedTypeNames cannot be declared by generated code.
var reservedTypeNames = map[string]bool{
	"any": true, "unknown": true, "never": true, "void": true, "undefined": true,
	"string": true, "number": true, "boolean": true, "bigint": true, "symbol": true,
	"object": true, "null": true, "Array": true, "Record": true, "Promise": true,
	"Date": true, "Object": true, "String": true, "Number": true, "Boolean": true,
	"AxiosRequestConfig": true, "axios": true, "client": true, "buildQuery": true, "buildHeaders": true,
}

// TypeSet is the mapped form of a resolved graph: one declaration per distinct
// named shape, plus the table that turns refs into emitted names.
type TypeSet struct {
	Decls []ir.TypeDecl
	Names ir.NameTable

	warn *generrors.Collector
	// owners maps an emitted name to the signature of the shape that claimed it
	owners map[string]string
}

// MapTypes maps every registered schema into a type declaration, in registry order.
func MapTypes(g *Graph, w *generrors.Collector) (*TypeSet, error) {
	if !g.Registry.Sealed() {
		return nil, fmt.Errorf("map types: registry is not sealed")
	}
	ts := &TypeSet{
		Names:  ir.NameTable{},
		warn:   w,
		owners: map[string]string{},
	}
	for _, ref := range g.Registry.Refs() {
		node, _ := g.Registry.Lookup(ref)
		decl := ts.declare(node)
		sig, err := signature(decl)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", ref, err)
		}
		name, fresh := ts.claim(requestedName(node.Name), sig)
		ts.Names[ref] = name
		if !fresh {
			continue
		}
		decl.Name = name
		decl.Ref = ref
		ts.Decls = append(ts.Decls, decl)
	}
	return ts, nil
}

// Name returns the emitted name for a registered ref.
func (ts *TypeSet) Name(ref string) string {
	return ts.Names[ref]
}

// claim returns the name a shape is emitted under and whether it is new. The first
// shape to request a name keeps it; an identical shape shares it; a different one
// takes the next free numeric suffix.
func (ts *TypeSet) claim(want, sig string) (string, bool) {
	for i := 1; ; i++ {
		candidate := want
		if i > 1 {
			candidate = want + strconv.Itoa(i)
		}
		if reservedTypeNames[candidate] || utils.IsReserved(candidate) {
			continue
		}
		owner, taken := ts.owners[candidate]
		if !taken {
			ts.owners[candidate] = sig
			return candidate, true
		}
		if owner == sig {
			return candidate, false
		}
	}
}

func requestedName(name string) string {
	if n := utils.TypeName(name); n != "" {
		return n
	}
	return "Type"
}

func (ts *TypeSet) declare(n *ir.SchemaNode) ir.TypeDecl {
	decl := ir.TypeDecl{Description: n.Description, Deprecated: n.Deprecated}
	switch n.Kind {
	case ir.KindObject:
		if len(n.Properties) > 0 && !n.Nullable {
			decl.Shape = ir.ShapeInterface
			decl.Fields = ts.fields(n)
			if n.AdditionalProperties != nil {
				decl.IndexSignature = ir.Unknown()
			}
			return decl
		}
		decl.Shape = ir.ShapeAlias
		if len(n.Properties) == 0 && n.AdditionalProperties != nil {
			decl.Shape = ir.ShapeMap
		}
	case ir.KindAllOf:
		if len(n.Members) > 1 && !n.Nullable {
			fields, index := ts.mergeAllOf(n)
			decl.Shape = ir.ShapeInterface
			decl.Fields = fields
			if index {
				decl.IndexSignature = ir.Unknown()
			}
			return decl
		}
		decl.Shape = ir.ShapeAlias
	case ir.KindEnum:
		decl.Shape = ir.ShapeEnum
	case ir.KindOneOf, ir.KindAnyOf:
		decl.Shape = ir.ShapeUnion
	case ir.KindArray:
		decl.Shape = ir.ShapeArray
	default:
		decl.Shape = ir.ShapeAlias
	}
	decl.Type = ts.Expr(n)
	return decl
}

// Expr maps a schema node into a type expression. Registered nodes reached through
// a reference stay named.
func (ts *TypeSet) Expr(n *ir.SchemaNode) *ir.TypeExpr {
	if n == nil {
		return ir.Unknown()
	}
	var t *ir.TypeExpr
	switch n.Kind {
	case ir.KindRef:
		if n.Target == nil {
			t = ir.Unknown()
			break
		}
		t = ir.Named(n.Target.Ref)
	case ir.KindString:
		t = ir.Prim(ir.PrimString)
	case ir.KindNumber, ir.KindInteger:
		t = ir.Prim(ir.PrimNumber)
	case ir.KindBoolean:
		t = ir.Prim(ir.PrimBoolean)
	case ir.KindNull:
		t = ir.Prim(ir.PrimNull)
	case ir.KindEnum:
		members := make([]*ir.TypeExpr, 0, len(n.Enum))
		for _, v := range n.Enum {
			members = append(members, &ir.TypeExpr{Kind: ir.ExprLiteral, Literal: v})
		}
		t = ir.Union(members...)
	case ir.KindArray:
		t = ir.ArrayOf(ts.Expr(n.Items))
	case ir.KindObject:
		t = ts.objectExpr(n)
	case ir.KindOneOf, ir.KindAnyOf:
		members := make([]*ir.TypeExpr, 0, len(n.Members))
		for _, m := range n.Members {
			members = append(members, ts.Expr(m))
		}
		t = ir.Union(members...)
		if len(members) == 0 {
			t = ir.Unknown()
		}
	case ir.KindAllOf:
		switch len(n.Members) {
		case 0:
			t = ir.Unknown()
		case 1:
			t = ts.Expr(n.Members[0])
		default:
			fields, index := ts.mergeAllOf(n)
			t = &ir.TypeExpr{Kind: ir.ExprObject, Fields: fields}
			if index {
				t.Elem = ir.Unknown()
			}
		}
	default:
		if n.Reason != "" && ts.warn != nil {
			ts.warn.Schema(n.Path, "%s; mapped to unknown", n.Reason)
		}
		t = ir.Unknown()
	}
	if n.Nullable && t.Kind != ir.ExprUnknown {
		t = ir.Nullable(t)
	}
	return t
}

func (ts *TypeSet) objectExpr(n *ir.SchemaNode) *ir.TypeExpr {
	if len(n.Properties) == 0 {
		if n.AdditionalProperties != nil {
			return ir.MapOf(ts.Expr(n.AdditionalProperties))
		}
		return &ir.TypeExpr{Kind: ir.ExprObject}
	}
	t := &ir.TypeExpr{Kind: ir.ExprObject, Fields: ts.fields(n)}
	if n.AdditionalProperties != nil {
		t.Elem = ir.Unknown()
	}
	return t
}

func (ts *TypeSet) fields(n *ir.SchemaNode) []ir.Field {
	out := make([]ir.Field, 0, len(n.Properties))
	for _, p := range n.Properties {
		out = append(out, ir.Field{
			Name:        p.Name,
			Type:        ts.Expr(p.Schema),
			Required:    p.Required,
			Description: p.Schema.Description,
			Deprecated:  p.Schema.Deprecated,
		})
	}
	return out
}

// mergeAllOf flattens allOf members into one field list. A later member replaces an
// earlier field of the same name in place; a field is required when any member
// lists it as required.
func (ts *TypeSet) mergeAllOf(n *ir.SchemaNode) ([]ir.Field, bool) {
	var (
		fields   []ir.Field
		index    = map[string]int{}
		required = map[string]bool{}
		hasIndex bool
	)
	var merge func(node *ir.SchemaNode, depth int)
	merge = func(node *ir.SchemaNode, depth int) {
		for i, member := range node.Members {
			target := member.Deref()
			switch {
			case target.Kind == ir.KindObject:
				for _, r := range target.Required {
					required[r] = true
				}
				if target.AdditionalProperties != nil {
					hasIndex = true
				}
				for _, f := range ts.fields(target) {
					if at, seen := index[f.Name]; seen {
						fields[at] = f
						continue
					}
					index[f.Name] = len(fields)
					fields = append(fields, f)
				}
			case target.Kind == ir.KindAllOf && depth < 64:
				merge(target, depth+1)
			case target.Kind == ir.KindUnknown && target.Reason == "":
			default:
				if ts.warn != nil {
					ts.warn.Schema(member.Path, "allOf member %d of kind %s cannot be merged into an object; mapped to unknown", i, target.Kind)
				}
			}
		}
	}
	merge(n, 0)
	for i := range fields {
		if required[fields[i].Name] {
			fields[i].Required = true
		}
	}
	return fields, hasIndex
}

// signature is the structural identity of a declaration, independent of its name.
func signature(d ir.TypeDecl) (string, error) {
	b, err := json.Marshal(struct {
		Shape          ir.DeclShape
		Fields         []ir.Field
		IndexSignature *ir.TypeExpr
		Type           *ir.TypeExpr
	}{d.Shape, d.Fields, d.IndexSignature, d.Type})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
