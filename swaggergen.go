// Package swaggergen generates TypeScript declarations and an axios-based service
// from Swagger 2.0 and OpenAPI 3.x documents.
//
// Every run writes three files: a declarations file (types.ts), a typed service
// (service.ts) importing those declarations, and an untyped service (service.js)
// with the same runtime behavior.
//
// Quick Start:
//
//	import swaggergen "github.com/blimu-dev/swagger-gen"
//
//	res, err := swaggergen.Generate(ctx, swaggergen.Options{
//		Spec:   "./swagger.json",
//		OutDir: "./output",
//	})
//	for _, w := range res.Warnings {
//		fmt.Println(w)
//	}
//
// For more control over the pipeline, see the generator package.
package swaggergen

import (
	"context"

	"github.com/blimu-dev/swagger-gen/pkg/generator"
)

// Options contains options for a generation run
type Options struct {
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

// Result is the outcome of a successful run: the generated sources, the files
// written and any non-fatal warnings.
type Result = generator.Result

// Generate generates the declarations and both services.
//
// Example:
//
//	res, err := swaggergen.Generate(ctx, swaggergen.Options{
//		Spec:        "https://petstore.swagger.io/v2/swagger.json",
//		OutDir:      "./petstore",
//		IncludeTags: []string{"pet", "store"},
//		ExcludeTags: []string{"internal"},
//	})
func Generate(ctx context.Context, opts Options) (*Result, error) {
	return generator.GenerateTypeScript(ctx, generator.GenerateTypeScriptOptions{
		ConfigPath:  opts.ConfigPath,
		Spec:        opts.Spec,
		OutDir:      opts.OutDir,
		BaseURL:     opts.BaseURL,
		IncludeTags: opts.IncludeTags,
		ExcludeTags: opts.ExcludeTags,
		Validate:    opts.Validate,
	})
}

// GenerateFromConfig generates from a YAML configuration file.
//
// Example:
//
//	res, err := swaggergen.GenerateFromConfig(ctx, "./swagger-gen.yaml")
func GenerateFromConfig(ctx context.Context, configPath string) (*Result, error) {
	return generator.GenerateFromConfig(ctx, configPath)
}

// ValidateSpec validates a Swagger/OpenAPI document file or URL.
// This is useful for checking a document before attempting to generate from it.
//
// Example:
//
//	if err := swaggergen.ValidateSpec(ctx, "./swagger.json"); err != nil {
//		log.Fatalf("Invalid document: %v", err)
//	}
func ValidateSpec(ctx context.Context, specPath string) error {
	return generator.ValidateSpec(ctx, specPath)
}
