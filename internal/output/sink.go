// Package output commits run artifacts: the report, chart images and the run
// manifest.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sink receives named artifacts.
type Sink interface {
	Put(name string, data []byte) error
}

// DirSink writes artifacts into a directory, each one atomically.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

// Put writes data to Dir/name.
func (s *DirSink) Put(name string, data []byte) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return WriteFile(s.Path(name), data)
}

// Path returns where name is written.
func (s *DirSink) Path(name string) string { return filepath.Join(s.Dir, name) }

// MemorySink keeps artifacts in memory.
type MemorySink struct {
	files map[string][]byte
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Put stores a copy of data.
func (s *MemorySink) Put(name string, data []byte) error {
	s.files[name] = append([]byte(nil), data...)
	return nil
}

// Get returns a stored artifact.
func (s *MemorySink) Get(name string) ([]byte, bool) {
	b, ok := s.files[name]
	return b, ok
}

// Names lists stored artifacts in sorted order.
func (s *MemorySink) Names() []string {
	out := make([]string, 0, len(s.files))
	for n := range s.files {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// WriteFile replaces path with data. The bytes go to a temp file in the same
// directory first, so readers never see a half-written artifact.
func WriteFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp, 0o644)
	}
	if werr == nil {
		werr = os.Rename(tmp, path)
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), werr)
	}
	return nil
}
