// Package typegraphtest builds throwaway modules for tests that need real
// type-checked packages.
package typegraphtest

import (
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/typegraph"
)

// Module is the module path used by WriteModule
const Module = "example.com/app"

// WriteModule writes files, keyed by slash separated relative path, into a
// new module in a temporary directory and returns the directory
func WriteModule(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	if _, ok := files["go.mod"]; !ok {
		writeFile(t, dir, "go.mod", "module "+Module+"\n\ngo 1.22\n")
	}
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

// Load writes a module and loads every package in it
func Load(t testing.TB, files map[string]string) (*typegraph.Graph, string) {
	t.Helper()
	return LoadWith(t, files, typegraph.LoadOptions{})
}

// LoadWith is Load with explicit options; opts.Dir is replaced by the module
func LoadWith(t testing.TB, files map[string]string, opts typegraph.LoadOptions) (*typegraph.Graph, string) {
	t.Helper()
	opts.Dir = WriteModule(t, files)
	graph, err := typegraph.Load(opts)
	require.NoError(t, err)
	return graph, opts.Dir
}

// LookupType finds a package level type; pkgPath is relative to Module
func LookupType(t testing.TB, graph *typegraph.Graph, pkgPath, name string) *types.TypeName {
	t.Helper()
	full := Module
	if pkgPath != "" {
		full += "/" + pkgPath
	}
	for _, pkg := range graph.Packages {
		if pkg.PkgPath != full {
			continue
		}
		obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		require.True(t, ok, "%s is not a type in %s", name, full)
		return obj
	}
	require.FailNow(t, "package not loaded", full)
	return nil
}

func writeFile(t testing.TB, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
