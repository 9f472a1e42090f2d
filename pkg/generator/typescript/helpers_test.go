package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blimu-dev/swagger-gen/pkg/ir"
)

func TestRenderType(t *testing.T) {
	names := ir.NameTable{"#/definitions/Pet": "Pet"}
	tests := []struct {
		name string
		expr *ir.TypeExpr
		want string
	}{
		{"nil", nil, "unknown"},
		{"unknown", ir.Unknown(), "unknown"},
		{"primitive", ir.Prim(ir.PrimString), "string"},
		{"named", ir.Named("#/definitions/Pet"), "Pet"},
		{"missing name", ir.Named("#/definitions/Gone"), "unknown"},
		{"array", ir.ArrayOf(ir.Named("#/definitions/Pet")), "Array<Pet>"},
		{"array of union", ir.ArrayOf(ir.Nullable(ir.Prim(ir.PrimNumber))), "Array<number | null>"},
		{"string literals", ir.Union(
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "a\"b"},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: "<c>"},
		), `"a\"b" | "<c>"`},
		{"numeric literals", ir.Union(
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: 1},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: 2.5},
			&ir.TypeExpr{Kind: ir.ExprLiteral, Literal: true},
		), "1 | 2.5 | true"},
		{"map", ir.MapOf(ir.Prim(ir.PrimBoolean)), "{ [key: string]: boolean }"},
		{"empty object", &ir.TypeExpr{Kind: ir.ExprObject}, "Record<string, unknown>"},
		{"inline object", &ir.TypeExpr{Kind: ir.ExprObject, Fields: []ir.Field{
			{Name: "id", Type: ir.Prim(ir.PrimNumber), Required: true},
			{Name: "x-rate", Type: ir.Prim(ir.PrimString)},
		}, Elem: ir.Unknown()}, `{ id: number; "x-rate"?: string; [key: string]: unknown }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderType(tt.expr, names))
		})
	}
}

func TestBuildPathTemplate(t *testing.T) {
	params := []ir.Param{
		{Name: "org-id", Identifier: "orgId"},
		{Name: "repo", Identifier: "repo"},
	}
	tests := []struct {
		path string
		want string
	}{
		{"/pets", "`/pets`"},
		{"/orgs/{org-id}/repos/{repo}", "`/orgs/${encodeURIComponent(String(orgId))}/repos/${encodeURIComponent(String(repo))}`"},
		{"/files/{repo}.json", "`/files/${encodeURIComponent(String(repo))}.json`"},
		{"/raw/`tick`/${x}", "`/raw/\\`tick\\`/\\${x}`"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildPathTemplate(tt.path, params), tt.path)
	}
}

func TestSignatureArgs(t *testing.T) {
	args := signatureArgs([]argView{
		{Name: "id", Type: "string"},
		{Name: "body", Type: "Pet", Optional: true},
		{Name: "query", Type: "{ page: number }"},
		{Name: "headers", Type: "{ trace?: string }", Optional: true},
		{Name: "config", Type: "AxiosRequestConfig", Optional: true},
	})
	assert.Equal(t, []argView{
		{Name: "id", Type: "string"},
		{Name: "body", Type: "Pet | undefined"},
		{Name: "query", Type: "{ page: number }"},
		{Name: "headers", Type: "{ trace?: string }", Optional: true},
		{Name: "config", Type: "AxiosRequestConfig", Optional: true},
	}, args)
}

func TestDocLines(t *testing.T) {
	assert.Nil(t, docLines("", "  "))
	assert.Equal(t, []string{"Summary", "", "Line one", `ends *\/ here`}, docLines("Summary", "Line one\nends */ here"))
}

func TestQuotePropName(t *testing.T) {
	assert.Equal(t, "name", quotePropName("name"))
	assert.Equal(t, "$ref", quotePropName("$ref"))
	assert.Equal(t, `"content-type"`, quotePropName("content-type"))
	assert.Equal(t, `"2fa"`, quotePropName("2fa"))
}
