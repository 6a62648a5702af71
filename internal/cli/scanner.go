package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/utils"
)

// DirectoryScanner handles directory scanning for Go packages
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// SetIncludeTests makes directories holding only _test.go files count as packages
func (s *DirectoryScanner) SetIncludeTests(include bool) {
	s.fileProcessor.SetIncludeTests(include)
}

// SetGeneratedPrefix sets the prefix of files that do not make a directory a package
func (s *DirectoryScanner) SetGeneratedPrefix(prefix string) {
	s.fileProcessor.SetGeneratedPrefix(prefix)
}

// ScanDirectories returns the absolute directories holding Go files.
// A directory ending in "/..." is scanned recursively, any other one is
// checked on its own. Each directory is returned once.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, rootDir := range rootDirs {
		baseDir, recursive := strings.CutSuffix(filepath.ToSlash(rootDir), "/...")
		if rootDir == "..." {
			baseDir, recursive = ".", true
		}
		if baseDir == "" {
			baseDir = "/"
		}

		cleanPath, err := filepath.Abs(filepath.FromSlash(baseDir))
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", baseDir, err)
		}

		var found []string
		if recursive {
			found, err = s.fileProcessor.ScanDirectoriesWithGoFiles([]string{cleanPath})
		} else {
			var ok bool
			ok, err = s.fileProcessor.HasGoFiles(cleanPath)
			if ok {
				found = []string{cleanPath}
			}
		}
		if err != nil {
			return nil, err
		}

		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	return packageDirs, nil
}
