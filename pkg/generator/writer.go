package generator

import (
	"os"
	"path/filepath"

	"github.com/blimu-dev/swagger-gen/pkg/config"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/generator/typescript"
)

const readableByAll = 0o644

type stagedFile struct {
	tmp    string
	target string
}

// WriteArtifacts writes the declarations file and both services into cfg.OutDir,
// skipping files listed in cfg.ExcludeFiles. The directory is created if it
// doesn't exist. Every file is staged under a temporary name first and renamed
// only once all of them are written, so a failed write leaves no new artifacts.
// It returns the paths written, in order.
func WriteArtifacts(cfg *config.Config, artifacts *typescript.Artifacts) ([]string, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, &generrors.IOError{Op: "create directory", Path: cfg.OutDir, Cause: err}
	}

	files := []struct {
		name    string
		content []byte
	}{
		{cfg.Files.Types, artifacts.Types},
		{cfg.Files.Service, artifacts.Service},
		{cfg.Files.ServiceJS, artifacts.ServiceJS},
	}

	var staged []stagedFile
	cleanup := func() {
		for _, s := range staged {
			_ = os.Remove(s.tmp)
		}
	}
	for _, file := range files {
		safeName := filepath.Base(file.name)
		if safeName != file.name {
			cleanup()
			return nil, &generrors.ConfigError{Option: "files", Message: "invalid file name " + file.name + ": must not contain path separators"}
		}
		filePath := filepath.Join(cfg.OutDir, safeName)
		if cfg.ShouldExcludeFile(filePath) {
			continue
		}
		if info, err := os.Stat(filePath); err == nil && info.IsDir() {
			cleanup()
			return nil, &generrors.IOError{Op: "write", Path: filePath, Cause: os.ErrExist}
		}
		tmp, err := stage(cfg.OutDir, safeName, file.content)
		if err != nil {
			cleanup()
			return nil, &generrors.IOError{Op: "write", Path: filePath, Cause: err}
		}
		staged = append(staged, stagedFile{tmp: tmp, target: filePath})
	}

	written := make([]string, 0, len(staged))
	for i, s := range staged {
		if err := os.Rename(s.tmp, s.target); err != nil {
			staged = staged[i:]
			cleanup()
			return written, &generrors.IOError{Op: "rename", Path: s.target, Cause: err}
		}
		written = append(written, s.target)
	}
	return written, nil
}

// stage writes content to a temporary file next to its final name.
func stage(dir, name string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Chmod(tmp, readableByAll); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
