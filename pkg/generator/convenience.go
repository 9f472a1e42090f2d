package generator

import (
	"context"

	"github.com/blimu-dev/swagger-gen/pkg/config"
	"github.com/blimu-dev/swagger-gen/pkg/openapi"
)

// GenerateTypeScript is a convenience function for generating with minimal configuration
func GenerateTypeScript(ctx context.Context, opts GenerateTypeScriptOptions) (*Result, error) {
	service := NewService(nil)

	genOpts := GenerateOptions{
		ConfigPath: opts.ConfigPath,
		Fallback: FallbackOptions{
			Spec:        opts.Spec,
			OutDir:      opts.OutDir,
			BaseURL:     opts.BaseURL,
			IncludeTags: opts.IncludeTags,
			ExcludeTags: opts.ExcludeTags,
			Validate:    opts.Validate,
		},
	}

	return service.Generate(ctx, genOpts)
}

// GenerateTypeScriptOptions contains options for the convenience GenerateTypeScript function
type GenerateTypeScriptOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Fallback options when no config file is provided
	Spec        string   // Swagger/OpenAPI document file or URL
	OutDir      string   // Output directory
	BaseURL     string   // Overrides the base URL derived from the document
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
	Validate    bool     // Validate the document before generating
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string) (*Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewService(nil).Run(ctx, cfg)
}

// ValidateSpec validates a Swagger/OpenAPI document
func ValidateSpec(ctx context.Context, specPath string) error {
	return openapi.ValidateFile(ctx, specPath)
}
