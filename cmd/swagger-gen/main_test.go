package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()
	for flag, def := range map[string]string{
		"config":       "",
		"input":        "swagger.json",
		"out":          "output",
		"base-url":     "",
		"include-tags": "[]",
		"exclude-tags": "[]",
		"validate":     "false",
		"verbose":      "false",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
	assert.Empty(t, cmd.Commands(), "the root command has no subcommands")
}

func TestRootCommandGenerates(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--input", filepath.Join("..", "..", "pkg", "generator", "testdata", "petstore.yaml"),
		"--out", out,
		"--base-url", "http://localhost:3000",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), filepath.Join(out, "service.ts"))
	assert.FileExists(t, filepath.Join(out, "service.js"))
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
