// Package validation checks input and output locations before the pipeline
// touches them, so failures surface with a clear reason.
package validation

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when an input file does not exist
var ErrNotFound = errors.New("file not found")

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("no input file specified")
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputPath checks that path is not a directory and that the nearest
// existing ancestor of its parent is a writable directory. Nothing is created;
// missing directories are left to the writer.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("no output file specified")
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return fmt.Errorf("output path %s is a directory", path)
	}

	dir, err := existingAncestor(filepath.Dir(path))
	if err != nil {
		v.logger.Error("Output directory is unusable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	// Verify it's writable by creating a throwaway file
	tmp, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output path validated",
		slog.String("path", path),
		slog.String("existing_dir", dir))
	return nil
}

// existingAncestor walks up from dir to the first path that exists, which
// must be a directory
func existingAncestor(dir string) (string, error) {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", dir)
			}
			return dir, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", dir, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing directory above %s", dir)
		}
		dir = parent
	}
}
