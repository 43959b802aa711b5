// Package dataset loads the source table from disk. Loaders register
// themselves by file extension; every loader yields a Raw table of text cells.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Options controls how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name.
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based index when SheetName is empty.
	SheetIndex int
}

// Loader reads one file format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Raw, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader based on the file name and reads the table.
func Load(path string, opt Options) (*Raw, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")
