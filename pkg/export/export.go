// Package export serializes decoded grid files.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ssargent/gsbgrid/pkg/grid"
	"gopkg.in/yaml.v3"
)

// Format is an output serialization
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// Extension returns the file extension for f, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Options controls serialization
type Options struct {
	Format Format
	Indent int // Spaces per level; 0 writes compact JSON
}

// DefaultOutputPath replaces the extension of input with the format's
func DefaultOutputPath(input string, f Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + f.Extension()
}

// Encode writes g to w
func Encode(w io.Writer, g *grid.GridFile, opts Options) error {
	switch opts.Format {
	case FormatJSON, "":
		var (
			data []byte
			err  error
		)
		if opts.Indent > 0 {
			data, err = json.MarshalIndent(g, "", strings.Repeat(" ", opts.Indent))
		} else {
			data, err = json.Marshal(g)
		}
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if opts.Indent > 0 {
			enc.SetIndent(opts.Indent)
		}
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// WriteFile serializes g to path. path is only replaced once the whole
// document is on disk.
func WriteFile(path string, g *grid.GridFile, opts Options) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, g, opts)
	})
}

// WriteAtomic streams write into a temporary file in the directory of path
// and renames it over path on success. On any failure the temporary file is
// removed and path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0644)

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := write(bw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
