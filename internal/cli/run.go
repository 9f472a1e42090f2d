package cli

import (
	"context"
	"io"

	"github.com/blimu-dev/swagger-gen/pkg/generator"
)

type FallbackParams struct {
	Spec        string
	OutDir      string
	BaseURL     string
	IncludeTags []string
	ExcludeTags []string
	Validate    bool
}

type RunGenerateParams struct {
	ConfigPath string
	Fallback   FallbackParams
	Verbose    bool
}

// RunGenerate runs one generation and reports the written files, then the
// warnings, on stdout. Logs go to stderr.
func RunGenerate(ctx context.Context, p RunGenerateParams, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, p.Verbose)

	svc := generator.NewService(logger)
	res, err := svc.Generate(ctx, generator.GenerateOptions{
		ConfigPath: p.ConfigPath,
		Fallback: generator.FallbackOptions{
			Spec:        p.Fallback.Spec,
			OutDir:      absPath(p.Fallback.OutDir),
			BaseURL:     p.Fallback.BaseURL,
			IncludeTags: p.Fallback.IncludeTags,
			ExcludeTags: p.Fallback.ExcludeTags,
			Validate:    p.Fallback.Validate,
		},
	})
	if err != nil {
		return err
	}
	printResult(stdout, res)
	return nil
}
