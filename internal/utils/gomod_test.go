package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":          "module example.com/app\n\ngo 1.22\n",
		"pkg/deep/x.go":   "package deep",
		"broken/go.mod":   "modul example.com/broken\n",
		"nomodule/go.mod": "go 1.22\n",
	})
	p := NewGoModParser()

	path, err := p.FindGoModFile(filepath.Join(root, "pkg", "deep"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "go.mod"), path)

	name, err := p.ParseModuleName(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)

	// cached: removing the file does not matter anymore
	require.NoError(t, os.Remove(path))
	name, err = p.ParseModuleName(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", name)

	_, err = p.ParseModuleName(filepath.Join(root, "broken", "go.mod"))
	assert.ErrorContains(t, err, "failed to parse go.mod file")

	_, err = p.ParseModuleName(filepath.Join(root, "nomodule", "go.mod"))
	assert.ErrorContains(t, err, "no module declaration")

	_, err = p.ParseModuleName(filepath.Join(root, "pkg", "deep", "x.go"))
	assert.ErrorContains(t, err, "not a go.mod file")
}

func TestGoModParser_NotFound(t *testing.T) {
	// the temp dir is outside of any module unless the system temp dir is
	dir := t.TempDir()
	if _, err := NewGoModParser().FindGoModFile(filepath.Dir(dir)); err == nil {
		t.Skip("temporary directory is inside a module")
	}
	_, err := NewGoModParser().FindGoModFile(dir)
	assert.EqualError(t, err, "go.mod file not found")
}
