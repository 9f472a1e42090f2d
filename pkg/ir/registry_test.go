package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsAppendOnly(t *testing.T) {
	r := NewRegistry()
	pet := &SchemaNode{Kind: KindObject, Name: "Pet"}
	require.NoError(t, r.Register("#/definitions/Pet", pet))
	require.NoError(t, r.Register("#/definitions/Error", &SchemaNode{Kind: KindObject, Name: "Error"}))

	assert.Error(t, r.Register("#/definitions/Pet", &SchemaNode{}))

	got, ok := r.Lookup("#/definitions/Pet")
	require.True(t, ok)
	assert.Same(t, pet, got)
	assert.Equal(t, []string{"#/definitions/Pet", "#/definitions/Error"}, r.Refs())
	assert.Equal(t, 2, r.Len())

	r.Seal()
	assert.True(t, r.Sealed())
	assert.Error(t, r.Register("#/definitions/Late", &SchemaNode{}))
	assert.Len(t, r.Nodes(), 2)
}

func TestDerefFollowsReferenceChains(t *testing.T) {
	target := &SchemaNode{Kind: KindObject, Name: "Pet"}
	alias := &SchemaNode{Kind: KindRef, Ref: "#/definitions/Pet", Target: target}
	outer := &SchemaNode{Kind: KindRef, Ref: "#/definitions/Alias", Target: alias}

	assert.Same(t, target, outer.Deref())
	assert.Same(t, target, target.Deref())

	loop := &SchemaNode{Kind: KindRef}
	loop.Target = loop
	assert.Same(t, loop, loop.Deref())
}

func TestUnionFlattensAndDedupesNull(t *testing.T) {
	u := Union(Nullable(Prim(PrimString)), Prim(PrimNumber), Prim(PrimNull))
	require.Equal(t, ExprUnion, u.Kind)
	require.Len(t, u.Members, 3)
	assert.Equal(t, PrimString, u.Members[0].Primitive)
	assert.True(t, u.Members[1].IsNull())
	assert.Equal(t, PrimNumber, u.Members[2].Primitive)

	single := Union(Named("#/definitions/Pet"))
	assert.Equal(t, ExprNamed, single.Kind)
}

func TestTypeExprRefs(t *testing.T) {
	e := Union(
		ArrayOf(Named("#/definitions/Pet")),
		&TypeExpr{Kind: ExprObject, Fields: []Field{{Name: "owner", Type: Named("#/definitions/User")}}},
		MapOf(Named("#/definitions/Pet")),
	)
	assert.Equal(t, []string{"#/definitions/Pet", "#/definitions/User"}, e.Refs())
}
