package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

const fixtures = "../../pkg/generator/testdata"

func TestRunGeneratePrintsFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	var stdout, stderr bytes.Buffer

	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{Spec: filepath.Join(fixtures, "petstore.yaml"), OutDir: out},
	}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, []string{
		"✓ wrote " + filepath.Join(out, "types.ts"),
		"✓ wrote " + filepath.Join(out, "service.ts"),
		"✓ wrote " + filepath.Join(out, "service.js"),
	}, lines)
	assert.Empty(t, stderr.String())
}

func TestRunGenerateVerboseLogs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := RunGenerate(context.Background(), RunGenerateParams{
		Verbose:  true,
		Fallback: FallbackParams{Spec: filepath.Join(fixtures, "petstore.yaml"), OutDir: t.TempDir()},
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "level=DEBUG")
	assert.Contains(t, stderr.String(), "wrote file")
}

func TestRunGenerateMissingSpec(t *testing.T) {
	// Smoke: a missing document is a document error and nothing is written
	out := filepath.Join(t.TempDir(), "out")
	var stdout, stderr bytes.Buffer
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{Spec: "/no/such/file.yaml", OutDir: out},
	}, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, generrors.ErrDocument)
	assert.Empty(t, stdout.String())
	assert.NoDirExists(t, out)
}
