package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/swagger-gen/internal/cli"
	"github.com/blimu-dev/swagger-gen/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var input string
	var outDir string
	var baseURL string
	var includeTags []string
	var excludeTags []string
	var validate bool
	var verbose bool

	cmd := &cobra.Command{
		Use:           "swagger-gen",
		Short:         "Generate TypeScript types and an axios service from Swagger/OpenAPI documents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), cli.RunGenerateParams{
				ConfigPath: configPath,
				Verbose:    verbose,
				Fallback: cli.FallbackParams{
					Spec:        input,
					OutDir:      outDir,
					BaseURL:     baseURL,
					IncludeTags: includeTags,
					ExcludeTags: excludeTags,
					Validate:    validate,
				},
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to swagger-gen.yaml config (other flags are ignored when set)")
	cmd.Flags().StringVar(&input, "input", config.DefaultSpec, "Swagger/OpenAPI document (file or http(s) URL, yaml/json)")
	cmd.Flags().StringVar(&outDir, "out", config.DefaultOutDir, "Output directory")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the base URL derived from the document")
	cmd.Flags().StringArrayVar(&includeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&excludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the document before generating")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each pipeline phase to stderr")

	return cmd
}
