package serialize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/roach88/qbcube/internal/graph"
)

// WriteFile creates path atomically: write fills a temporary file in the
// same directory, which is renamed over path only when write and the flush
// succeed. A failed write leaves no file behind. Missing parent directories
// are created.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// WriteGraphFile writes g to path in the format chosen by the extension,
// falling back to Turtle.
func WriteGraphFile(path string, g *graph.Graph, opts Options) error {
	format, ok := FormatForPath(path)
	if !ok {
		format = FormatTurtle
	}
	return WriteFile(path, func(w io.Writer) error {
		return Write(w, g, format, opts)
	})
}

// ReadGraphFile parses the file at path in the format chosen by its
// extension.
func ReadGraphFile(path string) (*graph.Graph, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: cannot infer format of %s", ErrUnknownFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}
