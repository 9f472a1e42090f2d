package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/blimu-dev/swagger-gen/pkg/generator"
)

// newLogger keeps stderr quiet unless verbose; warnings are reported by printResult.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printResult(w io.Writer, res *generator.Result) {
	for _, f := range res.Files {
		fmt.Fprintf(w, "✓ wrote %s\n", f)
	}
	if len(res.Warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "%d warning(s):\n", len(res.Warnings))
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, warn.String())
	}
}

// utility
func absPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, _ := filepath.Abs(p)
	return abs
}
