package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/ir"
)

func MapTypesOrFail(t *testing.T, g *Graph) *TypeSet {
	t.Helper()
	ts, err := MapTypes(g, generrors.NewCollector(nil))
	require.NoError(t, err)
	return ts
}

func declByName(t *testing.T, ts *TypeSet, name string) ir.TypeDecl {
	t.Helper()
	for _, d := range ts.Decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no declaration named %s", name)
	return ir.TypeDecl{}
}

func TestMapObjectWithRequiredFields(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  Pet:
    type: object
    required: [id, name]
    properties:
      id: {type: integer, format: int64}
      name: {type: string, description: Display name}
      tag: {type: string}
`)
	ts := MapTypesOrFail(t, g)

	want := []ir.TypeDecl{{
		Name:  "Pet",
		Ref:   "#/definitions/Pet",
		Shape: ir.ShapeInterface,
		Fields: []ir.Field{
			{Name: "id", Type: ir.Prim(ir.PrimNumber), Required: true},
			{Name: "name", Type: ir.Prim(ir.PrimString), Required: true, Description: "Display name"},
			{Name: "tag", Type: ir.Prim(ir.PrimString)},
		},
	}}
	if diff := cmp.Diff(want, ts.Decls); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ir.NameTable{"#/definitions/Pet": "Pet"}, ts.Names)
}

func TestMapShapes(t *testing.T) {
	g := resolveDoc(t, `
openapi: 3.0.0
info: {title: x, version: "1"}
paths: {}
components:
  schemas:
    Status: {type: string, enum: [available, pending, sold]}
    Level: {type: integer, enum: [1, 2]}
    Names: {type: array, items: {type: string}}
    Scores: {type: object, additionalProperties: {type: number}}
    Bag: {type: object}
    Loose:
      type: object
      properties:
        id: {type: string}
      additionalProperties: true
    Shape:
      oneOf:
        - $ref: "#/components/schemas/Names"
        - type: boolean
    MaybeCount: {type: integer, nullable: true}
    Owner:
      type: object
      nullable: true
      properties:
        name: {type: string}
`)
	ts := MapTypesOrFail(t, g)

	tests := []struct {
		name string
		want ir.TypeDecl
	}{
		{"Status", ir.TypeDecl{Shape: ir.ShapeEnum, Type: ir.Union(
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "available"},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "pending"},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "sold"},
		)}},
		{"Level", ir.TypeDecl{Shape: ir.ShapeEnum, Type: ir.Union(
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: 1},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: 2},
		)}},
		{"Names", ir.TypeDecl{Shape: ir.ShapeArray, Type: ir.ArrayOf(ir.Prim(ir.PrimString))}},
		{"Scores", ir.TypeDecl{Shape: ir.ShapeMap, Type: ir.MapOf(ir.Prim(ir.PrimNumber))}},
		{"Bag", ir.TypeDecl{Shape: ir.ShapeAlias, Type: &ir.TypeExpr{Kind: ir.ExprObject}}},
		{"Loose", ir.TypeDecl{
			Shape:          ir.ShapeInterface,
			Fields:         []ir.Field{{Name: "id", Type: ir.Prim(ir.PrimString)}},
			IndexSignature: ir.Unknown(),
		}},
		{"Shape", ir.TypeDecl{Shape: ir.ShapeUnion, Type: ir.Union(
			ir.Named("#/components/schemas/Names"),
			ir.Prim(ir.PrimBoolean),
		)}},
		{"MaybeCount", ir.TypeDecl{Shape: ir.ShapeAlias, Type: ir.Nullable(ir.Prim(ir.PrimNumber))}},
		{"Owner", ir.TypeDecl{Shape: ir.ShapeAlias, Type: ir.Nullable(&ir.TypeExpr{
			Kind:   ir.ExprObject,
			Fields: []ir.Field{{Name: "name", Type: ir.Prim(ir.PrimString)}},
		})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := declByName(t, ts, tt.name)
			tt.want.Name = tt.name
			tt.want.Ref = "#/components/schemas/" + tt.name
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestMapAllOfLaterMemberWins(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  Base:
    type: object
    required: [id]
    properties:
      id: {type: string}
      kind: {type: string}
  Dog:
    allOf:
      - $ref: "#/definitions/Base"
      - type: object
        required: [kind]
        properties:
          kind: {type: string, enum: [dog]}
          barks: {type: boolean}
  Wrapped:
    allOf:
      - $ref: "#/definitions/Base"
`)
	w := generrors.NewCollector(nil)
	ts, err := MapTypes(g, w)
	require.NoError(t, err)

	dog := declByName(t, ts, "Dog")
	want := []ir.Field{
		{Name: "id", Type: ir.Prim(ir.PrimString), Required: true},
		{Name: "kind", Type: &ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "dog"}, Required: true},
		{Name: "barks", Type: ir.Prim(ir.PrimBoolean)},
	}
	assert.Equal(t, ir.ShapeInterface, dog.Shape)
	if diff := cmp.Diff(want, dog.Fields); diff != "" {
		t.Errorf("Dog fields mismatch (-want +got):\n%s", diff)
	}

	wrapped := declByName(t, ts, "Wrapped")
	assert.Equal(t, ir.ShapeAlias, wrapped.Shape)
	assert.Equal(t, ir.Named("#/definitions/Base"), wrapped.Type)
	assert.Zero(t, w.Len())
}

func TestMapAllOfUnmergeableMemberWarns(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  Odd:
    allOf:
      - type: object
        properties:
          a: {type: string}
      - type: string
`)
	w := generrors.NewCollector(nil)
	ts, err := MapTypes(g, w)
	require.NoError(t, err)

	odd := declByName(t, ts, "Odd")
	require.Len(t, odd.Fields, 1)
	require.Equal(t, 1, w.Len())
	assert.Equal(t, generrors.CategorySchema, w.Warnings()[0].Category)
	assert.Equal(t, "/definitions/Odd/allOf/1", w.Warnings()[0].Path)
}

func TestMapUnsupportedConstructsWarn(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  Upload:
    type: object
    properties:
      data: {type: file}
      meta: {}
`)
	w := generrors.NewCollector(nil)
	ts, err := MapTypes(g, w)
	require.NoError(t, err)

	upload := declByName(t, ts, "Upload")
	assert.Equal(t, ir.ExprUnknown, upload.Fields[0].Type.Kind)
	assert.Equal(t, ir.ExprUnknown, upload.Fields[1].Type.Kind)

	warnings := w.Warnings()
	require.Len(t, warnings, 1, "an empty schema is a plain unknown, not a warning")
	assert.Equal(t, "/definitions/Upload/properties/data", warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "file type is not supported")
}

func TestMapNameCollisions(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  PagePet:
    type: object
    properties:
      items: {type: array, items: {type: string}}
  Page«Pet»:
    type: object
    properties:
      total: {type: integer}
  Page-Pet:
    type: object
    properties:
      total: {type: integer}
  string:
    type: string
  Order:
    type: object
    properties:
      status: {$ref: "#/definitions/Pet/properties/status"}
      state: {$ref: "#/definitions/Shipment/properties/status"}
  Pet:
    type: object
    properties:
      status: {type: string, enum: [a, b]}
  Shipment:
    type: object
    properties:
      status: {type: string, enum: [a, b]}
`)
	ts := MapTypesOrFail(t, g)

	assert.Equal(t, "PagePet", ts.Name("#/definitions/PagePet"))
	assert.Equal(t, "PagePet2", ts.Name("#/definitions/Page«Pet»"))
	assert.Equal(t, "PagePet2", ts.Name("#/definitions/Page-Pet"), "an identical shape shares the name")
	assert.Equal(t, "string2", ts.Name("#/definitions/string"))
	assert.Equal(t, "status", ts.Name("#/definitions/Pet/properties/status"))
	assert.Equal(t, "status", ts.Name("#/definitions/Shipment/properties/status"))

	names := make([]string, 0, len(ts.Decls))
	for _, d := range ts.Decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"PagePet", "PagePet2", "string2", "Order", "Pet", "Shipment", "status"}, names)
}

func TestMapAvoidsServiceBindings(t *testing.T) {
	g := resolveDoc(t, `
swagger: "2.0"
info: {title: x, version: "1"}
paths: {}
definitions:
  client: {type: object, properties: {id: {type: string}}}
  axios: {type: string}
  buildQuery: {type: integer}
  buildHeaders: {type: boolean}
`)
	ts := MapTypesOrFail(t, g)

	assert.Equal(t, "client2", ts.Name("#/definitions/client"))
	assert.Equal(t, "axios2", ts.Name("#/definitions/axios"))
	assert.Equal(t, "buildQuery2", ts.Name("#/definitions/buildQuery"))
	assert.Equal(t, "buildHeaders2", ts.Name("#/definitions/buildHeaders"))
}
