package generrors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"document", &DocumentError{Message: "bad"}, ErrDocument, true},
		{"document is not reference", &DocumentError{}, ErrReference, false},
		{"reference", &ReferenceError{Ref: "#/definitions/Pet"}, ErrReference, true},
		{"plain reference is not circular", &ReferenceError{}, ErrCircularReference, false},
		{"circular", &ReferenceError{IsCircular: true}, ErrCircularReference, true},
		{"circular is reference", &ReferenceError{IsCircular: true}, ErrReference, true},
		{"malformed", &ReferenceError{IsMalformed: true}, ErrMalformedSchema, true},
		{"schema", &SchemaError{}, ErrSchema, true},
		{"operation", &OperationError{}, ErrOperation, true},
		{"io", &IOError{}, ErrIO, true},
		{"config", &ConfigError{}, ErrConfig, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorChaining(t *testing.T) {
	err := &IOError{Path: "/out/types.ts", Op: "write", Cause: fs.ErrPermission}
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, "io error during write /out/types.ts: permission denied", err.Error())

	var refErr *ReferenceError
	wrapped := errors.Join(errors.New("resolve"), &ReferenceError{Ref: "#/definitions/Missing", Message: "target not found"})
	require.ErrorAs(t, wrapped, &refErr)
	assert.Equal(t, "#/definitions/Missing", refErr.Ref)
	assert.Equal(t, `reference error "#/definitions/Missing": target not found`, refErr.Error())
}

func TestCollector(t *testing.T) {
	c := NewCollector(nil)
	c.Schema("#/definitions/Pet/properties/photo", "unsupported type %q", "file")
	c.Operation("GET /pets", "#/paths/~1pets/get/parameters/0", "unsupported parameter location %q", "cookie")
	c.Schema("#/definitions/Pet/properties/photo", "unsupported type %q", "file")

	warnings := c.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, CategorySchema, warnings[0].Category)
	assert.ErrorIs(t, warnings[0].Err(), ErrSchema)
	assert.Equal(t, `⚠ schema #/definitions/Pet/properties/photo: unsupported type "file"`, warnings[0].String())

	assert.ErrorIs(t, warnings[1].Err(), ErrOperation)
	assert.Equal(t, `⚠ operation GET /pets: unsupported parameter location "cookie"`, warnings[1].String())
}

func TestNilCollectorDropsWarnings(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Schema("/definitions/A", "unsupported %s", "not")
		c.Operation("GET /a", "/paths/~1a/get", "dropped")
	})
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Warnings())
}
