package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swagger-gen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "spec: api/swagger.json\n"))
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "api", "swagger.json"), cfg.Spec)
	assert.Equal(t, filepath.Join(wd, DefaultOutDir), cfg.OutDir)
	assert.Equal(t, Files{Types: "types.ts", Service: "service.ts", ServiceJS: "service.js"}, cfg.Files)
	assert.False(t, cfg.Validate)
	assert.Empty(t, cfg.GetPostCommand())
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
spec: https://petstore.example.com/swagger.json
outDir: /tmp/petstore
baseURL: http://localhost:8080
files:
  types: models.ts
  service: api.ts
  serviceJS: api.js
includeTags: ["^pets$"]
excludeTags: [internal]
validate: true
postCommand: ["npx", "prettier", "--write", "."]
exclude: [api.js]
`))
	require.NoError(t, err)

	assert.Equal(t, "https://petstore.example.com/swagger.json", cfg.Spec, "URLs are kept as-is")
	assert.Equal(t, "/tmp/petstore", cfg.OutDir)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, Files{Types: "models.ts", Service: "api.ts", ServiceJS: "api.js"}, cfg.Files)
	assert.Equal(t, []string{"^pets$"}, cfg.IncludeTags)
	assert.Equal(t, []string{"internal"}, cfg.ExcludeTags)
	assert.True(t, cfg.Validate)
	assert.Equal(t, []string{"npx", "prettier", "--write", "."}, cfg.GetPostCommand())
	assert.Equal(t, "./models", cfg.TypesModule())
	assert.True(t, cfg.ShouldExcludeFile("/tmp/petstore/api.js"))
	assert.False(t, cfg.ShouldExcludeFile("/tmp/petstore/api.ts"))
	assert.False(t, cfg.ShouldExcludeFile("/elsewhere/api.js"))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		option string
	}{
		{"missing spec", "outDir: out\n", "spec"},
		{"bad yaml", "spec: [unterminated\n", ""},
		{"nested file name", "spec: a.json\nfiles: {types: gen/types.ts}\n", "files.types"},
		{"hidden file name", "spec: a.json\nfiles: {service: .service.ts}\n", "files.service"},
		{"duplicate file names", "spec: a.json\nfiles: {service: out.js, serviceJS: out.js}\n", "files.service"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, generrors.ErrConfig)
			var cfgErr *generrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, generrors.ErrConfig)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultSpec, cfg.Spec)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, "./types", cfg.TypesModule())
}
