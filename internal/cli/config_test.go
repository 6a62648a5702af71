package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, []string{"./..."}, config.Directories)
	assert.Equal(t, "autogen_", config.FilePrefix)
	assert.NoError(t, config.Validate())
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ConfigFileName:     "[generate]\n",
		"store/cache/a.go": "package cache\n",
	})

	path, found, err := FindConfigFile(filepath.Join(root, "store", "cache"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filepath.Join(root, ConfigFileName), path)

	_, found, err = FindConfigFile(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConfig_ApplyFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ConfigFileName: `[generate]
directories = ["./internal/...", "cmd/tool", "/abs/dir"]
strategies = ["printing", "timing"]
file_prefix = "zz_"
build_tags = ["integration"]
include_tests = true
module = "example.com/custom"
`,
	})

	config := DefaultConfig()
	require.NoError(t, config.ApplyFile(filepath.Join(root, ConfigFileName)))

	assert.Equal(t, []string{
		filepath.ToSlash(filepath.Join(root, "internal")) + "/...",
		filepath.Join(root, "cmd", "tool"),
		"/abs/dir",
	}, config.Directories)
	assert.Equal(t, []string{"printing", "timing"}, config.Strategies)
	assert.Equal(t, "zz_", config.FilePrefix)
	assert.Equal(t, []string{"integration"}, config.BuildTags)
	assert.True(t, config.IncludeTests)
	assert.Equal(t, "example.com/custom", config.ModuleName)
	assert.Equal(t, filepath.Join(root, ConfigFileName), config.Source)
}

func TestConfig_ApplyFileKeepsUndefinedSettings(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ConfigFileName: "[generate]\nstrategies = [\"logging\"]\n",
	})

	config := DefaultConfig()
	config.DryRun = true
	require.NoError(t, config.ApplyFile(filepath.Join(root, ConfigFileName)))

	assert.Equal(t, []string{"./..."}, config.Directories)
	assert.Equal(t, "autogen_", config.FilePrefix)
	assert.Equal(t, []string{"logging"}, config.Strategies)
	assert.True(t, config.DryRun)
}

func TestConfig_ApplyFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid toml",
			content: "[generate\n",
			wantErr: "failed to parse configuration",
		},
		{
			name:    "unknown key",
			content: "[generate]\nstrategy = \"printing\"\n",
			wantErr: "unknown keys: generate.strategy",
		},
		{
			name:    "wrong type",
			content: "[generate]\ninclude_tests = \"yes\"\n",
			wantErr: "failed to parse configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, map[string]string{ConfigFileName: tt.content})

			config := DefaultConfig()
			err := config.ApplyFile(filepath.Join(root, ConfigFileName))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "no directories", modify: func(c *Config) { c.Directories = nil }, wantErr: "no directories to scan"},
		{name: "prefix with separator", modify: func(c *Config) { c.FilePrefix = "gen/" }, wantErr: "must not contain path separators"},
		{name: "empty prefix", modify: func(c *Config) { c.FilePrefix = "" }, wantErr: "file prefix must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
