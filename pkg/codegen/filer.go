package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Filer is the output sink for generated files.
type Filer interface {
	WriteFile(dir, name string, content []byte) error
}

// DirFiler writes files into their package directory.
type DirFiler struct {
	Perm os.FileMode
}

// NewDirFiler creates a filer writing with 0644 permissions
func NewDirFiler() *DirFiler {
	return &DirFiler{Perm: 0644}
}

// WriteFile writes content to dir/name
func (f *DirFiler) WriteFile(dir, name string, content []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, name), content, f.Perm)
}

// MemoryFiler keeps generated files in memory, keyed by dir/name.
type MemoryFiler struct {
	Files map[string][]byte
}

// NewMemoryFiler creates an empty in-memory filer
func NewMemoryFiler() *MemoryFiler {
	return &MemoryFiler{Files: make(map[string][]byte)}
}

// WriteFile records content under dir/name
func (f *MemoryFiler) WriteFile(dir, name string, content []byte) error {
	f.Files[filepath.Join(dir, name)] = content
	return nil
}

// Names returns the recorded paths in sorted order
func (f *MemoryFiler) Names() []string {
	names := make([]string, 0, len(f.Files))
	for name := range f.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
