package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultSpec          = "swagger.json"
	DefaultOutDir        = "output"
	DefaultTypesFile     = "types.ts"
	DefaultServiceFile   = "service.ts"
	DefaultServiceJSFile = "service.js"
)

// Config represents the complete configuration for a generation run
type Config struct {
	// Spec is a file path or HTTP(S) URL of the API description
	Spec   string `yaml:"spec"`
	OutDir string `yaml:"outDir"`
	// BaseURL overrides the base URL derived from the document
	BaseURL string `yaml:"baseURL"`
	Files   Files  `yaml:"files"`
	// IncludeTags and ExcludeTags are regex patterns matched against operation tags
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// Validate runs structural validation of the document before generating
	Validate bool `yaml:"validate"`
	// PostCommand is an optional command to run after the files are written.
	// Uses Docker Compose array format: ["npx", "prettier", "--write", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles lists generated file names (relative to outDir) that should not be written
	ExcludeFiles []string `yaml:"exclude"`
}

// Files names the generated artifacts inside OutDir.
type Files struct {
	Types     string `yaml:"types"`
	Service   string `yaml:"service"`
	ServiceJS string `yaml:"serviceJS"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// GetPostCommand returns the post-generation command to execute.
func (c *Config) GetPostCommand() []string {
	return c.PostCommand
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Config) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		// Not under OutDir
		return false
	}
	relPath = filepath.ToSlash(relPath)

	for _, excludePattern := range c.ExcludeFiles {
		if relPath == filepath.ToSlash(excludePattern) {
			return true
		}
	}
	return false
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &generrors.ConfigError{Message: "cannot read config file " + path, Cause: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &generrors.ConfigError{Message: "cannot parse config file " + path, Cause: err}
	}
	if cfg.Spec == "" {
		return nil, &generrors.ConfigError{Option: "spec", Message: "config.spec is required"}
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize applies defaults, absolutizes local paths and checks the output file names.
func (c *Config) Normalize() error {
	c.applyDefaults()

	if !filepath.IsAbs(c.OutDir) {
		abs, err := filepath.Abs(c.OutDir)
		if err != nil {
			return &generrors.ConfigError{Option: "outDir", Message: "cannot resolve output directory", Cause: err}
		}
		c.OutDir = abs
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if u, err := url.Parse(c.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep as-is
	} else if !filepath.IsAbs(c.Spec) {
		abs, err := filepath.Abs(c.Spec)
		if err != nil {
			return &generrors.ConfigError{Option: "spec", Message: "cannot resolve spec path", Cause: err}
		}
		c.Spec = abs
	}

	seen := map[string]string{}
	for option, name := range map[string]string{
		"files.types":     c.Files.Types,
		"files.service":   c.Files.Service,
		"files.serviceJS": c.Files.ServiceJS,
	} {
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			return &generrors.ConfigError{Option: option, Message: fmt.Sprintf("%q must be a plain file name", name)}
		}
		if other, dup := seen[name]; dup {
			// report the pair in a stable order
			a, b := option, other
			if b < a {
				a, b = b, a
			}
			return &generrors.ConfigError{Option: a, Message: fmt.Sprintf("file name %q is also used by %s", name, b)}
		}
		seen[name] = option
	}
	return nil
}

// TypesModule returns the import specifier of the declarations file, e.g. "./types".
func (c *Config) TypesModule() string {
	return "./" + strings.TrimSuffix(c.Files.Types, filepath.Ext(c.Files.Types))
}

func (c *Config) applyDefaults() {
	if c.Spec == "" {
		c.Spec = DefaultSpec
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Files.Types == "" {
		c.Files.Types = DefaultTypesFile
	}
	if c.Files.Service == "" {
		c.Files.Service = DefaultServiceFile
	}
	if c.Files.ServiceJS == "" {
		c.Files.ServiceJS = DefaultServiceJSFile
	}
}
