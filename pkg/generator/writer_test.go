package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swagger-gen/pkg/config"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/generator/typescript"
)

var sampleArtifacts = &typescript.Artifacts{
	Types:     []byte("export {};\n"),
	Service:   []byte("// ts\n"),
	ServiceJS: []byte("// js\n"),
}

func writerConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Spec: "swagger.json", OutDir: filepath.Join(t.TempDir(), "out")}
	require.NoError(t, cfg.Normalize())
	return cfg
}

func TestWriteArtifacts(t *testing.T) {
	cfg := writerConfig(t)
	written, err := WriteArtifacts(cfg, sampleArtifacts)
	require.NoError(t, err)
	require.Len(t, written, 3)

	data, err := os.ReadFile(filepath.Join(cfg.OutDir, "service.js"))
	require.NoError(t, err)
	assert.Equal(t, "// js\n", string(data))

	entries, err := os.ReadDir(cfg.OutDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files are left behind")
}

func TestWriteArtifactsFailureLeavesNoArtifacts(t *testing.T) {
	cfg := writerConfig(t)
	// a directory occupying the last target makes that write fail
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutDir, "service.js"), 0o755))

	written, err := WriteArtifacts(cfg, sampleArtifacts)
	require.Error(t, err)
	assert.ErrorIs(t, err, generrors.ErrIO)
	assert.Empty(t, written)
	assert.NoFileExists(t, filepath.Join(cfg.OutDir, "types.ts"))
	assert.NoFileExists(t, filepath.Join(cfg.OutDir, "service.ts"))

	entries, err := os.ReadDir(cfg.OutDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "service.js", entries[0].Name())
}
