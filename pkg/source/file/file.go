// Package file provides a listing source backed by a local JSON file,
// mainly for development and tests. The file holds a JSON array of
// records in the same shape the remote sources produce.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blobnav/blobnav/pkg/catalog"
)

// Config contains configuration for a file listing source.
type Config struct {
	// Path is the JSON listing file to read.
	Path string `mapstructure:"path"`
}

// Source reads a listing from a local JSON file.
type Source struct {
	path string
}

// New creates a file source.
func New(config Config) (*Source, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("file source requires path")
	}
	return &Source{path: config.Path}, nil
}

// List reads and decodes the listing file.
func (s *Source) List(ctx context.Context) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing file: %w", err)
	}

	var records []catalog.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode listing file %s: %w", s.path, err)
	}
	return records, nil
}

// ID implements source.Source.
func (s *Source) ID() string {
	return "file:" + filepath.Base(s.path)
}
