package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/blimu-dev/swagger-gen/pkg/config"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/generator/typescript"
	"github.com/blimu-dev/swagger-gen/pkg/openapi"
)

// Generator renders the mapped declarations and operations into artifacts.
type Generator interface {
	Emit(in typescript.EmitInput) (*typescript.Artifacts, error)
}

// GenerateOptions contains options for a generation run
type GenerateOptions struct {
	ConfigPath string
	Fallback   FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Spec        string
	OutDir      string
	BaseURL     string
	IncludeTags []string
	ExcludeTags []string
	Validate    bool
}

// Result is the outcome of a successful run.
type Result struct {
	Artifacts *typescript.Artifacts
	// Files are the absolute paths written, in write order
	Files    []string
	Warnings []generrors.Warning
}

// Service runs the load, resolve, map, extract, emit and write pipeline.
type Service struct {
	generator Generator
	logger    *slog.Logger
}

// NewService creates a service that emits TypeScript with the embedded templates.
// A nil logger discards all output.
func NewService(logger *slog.Logger) *Service {
	return NewServiceWithGenerator(nil, logger)
}

// NewServiceWithGenerator creates a service with a custom generator
func NewServiceWithGenerator(gen Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{generator: gen, logger: logger}
}

// Generate builds a config from opts and runs it.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		// Use fallback options to create a config
		cfg = &config.Config{
			Spec:        opts.Fallback.Spec,
			OutDir:      opts.Fallback.OutDir,
			BaseURL:     opts.Fallback.BaseURL,
			IncludeTags: opts.Fallback.IncludeTags,
			ExcludeTags: opts.Fallback.ExcludeTags,
			Validate:    opts.Fallback.Validate,
		}
		if err := cfg.Normalize(); err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	return s.Run(ctx, cfg)
}

// Run generates the artifacts described by cfg. Fatal errors abort before
// anything is written; warnings are returned with the result.
func (s *Service) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	s.logger.Debug("loading document", "spec", cfg.Spec)
	doc, err := openapi.Load(ctx, cfg.Spec)
	if err != nil {
		return nil, err
	}
	if cfg.Validate {
		if err := openapi.ValidateDocument(ctx, doc); err != nil {
			return nil, err
		}
		s.logger.Debug("document is valid")
	}

	graph, err := Resolve(doc, ResolveOptions{Logger: s.logger})
	if err != nil {
		return nil, err
	}

	warnings := generrors.NewCollector(s.logger)
	types, err := MapTypes(graph, warnings)
	if err != nil {
		return nil, err
	}
	reserved := make([]string, 0, len(types.Decls))
	for _, d := range types.Decls {
		reserved = append(reserved, d.Name)
	}
	ops, err := ExtractOperations(graph, ExtractOptions{
		IncludeTags:   cfg.IncludeTags,
		ExcludeTags:   cfg.ExcludeTags,
		ReservedNames: reserved,
	}, warnings)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("mapped document", "declarations", len(types.Decls), "operations", len(ops))

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openapi.BaseURL(doc, graph.Version)
	}

	gen, err := s.generatorFor(cfg)
	if err != nil {
		return nil, err
	}
	artifacts, err := gen.Emit(typescript.EmitInput{
		Info:       openapi.DocumentInfo(doc),
		BaseURL:    baseURL,
		Decls:      types.Decls,
		Names:      types.Names,
		Operations: ops,
		Types:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	files, err := WriteArtifacts(cfg, artifacts)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		s.logger.Debug("wrote file", "path", f)
	}

	if err := s.executePostGenCommands(ctx, cfg); err != nil {
		return nil, err
	}

	return &Result{Artifacts: artifacts, Files: files, Warnings: warnings.Warnings()}, nil
}

func (s *Service) generatorFor(cfg *config.Config) (Generator, error) {
	if s.generator != nil {
		return s.generator, nil
	}
	emitter, err := typescript.NewEmitter()
	if err != nil {
		return nil, err
	}
	emitter.TypesModule = cfg.TypesModule()
	return emitter, nil
}

// executePostGenCommands executes the post-generation command in the output directory
func (s *Service) executePostGenCommands(ctx context.Context, cfg *config.Config) error {
	command := cfg.GetPostCommand()
	if len(command) == 0 {
		return nil // No command to execute
	}

	s.logger.Debug("running post-command", "command", strings.Join(command, " "))
	if err := executeCommand(ctx, command, cfg.OutDir, "post-command"); err != nil {
		return &generrors.IOError{Op: "post-command", Path: cfg.OutDir, Cause: err}
	}
	return nil
}

// executeCommand executes a single command in Docker Compose array format
func executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil // Skip empty commands
	}

	// Create command with first element as executable and rest as arguments
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir      // Execute in the specified directory
	cmd.Stdout = os.Stderr // Keep stdout for the CLI summary
	cmd.Stderr = os.Stderr // Forward stderr to see errors

	cmdDescription := strings.Join(command, " ")

	// Execute the command
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}

	return nil
}
