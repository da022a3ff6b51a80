// Package fs provides filesystem and I/O utility functions.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/urmzd/oag/pkg/generator"
)

// ReadAll reads from r until an error or EOF and returns the data it read.
// It checks ctx.Done() before each read operation to allow cancellation.
func ReadAll(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := make([]byte, 0, 512)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(b) == cap(b) {
			// Add more capacity (let append pick how much).
			b = append(b, 0)[:len(b)]
		}

		n, err := r.Read(b[len(b):cap(b)])
		b = b[:len(b)+n]

		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return b, err
		}
	}
}

// ReadFile reads the entire file content into a byte slice.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating any necessary parent directories.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteTree writes a generated file list under the output directory.
func WriteTree(dir string, files []generator.File) error {
	for _, f := range files {
		if err := WriteFile(filepath.Join(dir, filepath.FromSlash(f.Path)), f.Contents); err != nil {
			return err
		}
	}
	return nil
}
