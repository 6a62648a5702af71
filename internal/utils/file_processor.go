package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/delegate/internal/errors"
)

// DefaultGeneratedPrefix starts the name of every generated file
const DefaultGeneratedPrefix = "autogen_"

// FileProcessor finds package directories and generated files on disk
type FileProcessor struct {
	includeTests    bool
	generatedPrefix string
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{generatedPrefix: DefaultGeneratedPrefix}
}

// SetIncludeTests makes directories holding only test files count as packages
func (fp *FileProcessor) SetIncludeTests(include bool) {
	fp.includeTests = include
}

// SetGeneratedPrefix changes the prefix of generated file names
func (fp *FileProcessor) SetGeneratedPrefix(prefix string) {
	fp.generatedPrefix = prefix
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// GoFileFilter matches hand-written Go source files
func (fp *FileProcessor) GoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, fp.generatedPrefix) {
			return false
		}
		return fp.includeTests || !strings.HasSuffix(name, "_test.go")
	}
}

// GeneratedFileFilter matches file names carrying the generated prefix
func (fp *FileProcessor) GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasPrefix(name, fp.generatedPrefix) && strings.HasSuffix(name, ".go")
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		// Skip directories starting with underscore, ignored by the go command
		if strings.HasPrefix(name, "_") {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", rootDir, err)
	}

	return matchedFiles, nil
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	// Resolve absolute path to handle symlinks and avoid cycles
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, err
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}
		// nested modules are loaded on their own
		if _, err := os.Stat(filepath.Join(entryPath, "go.mod")); err == nil {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains hand-written Go files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.WrapFileSystemError("read directory", dir, err)
	}

	fileFilter := fp.GoFileFilter()

	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// FindGeneratedFiles lists the generated files under the given directory
// trees. A file counts as generated when its name has the generated prefix
// and a header line starts with headerPrefix, so hand-written files that
// happen to share the prefix are left alone.
func (fp *FileProcessor) FindGeneratedFiles(rootDirs []string, headerPrefix string) ([]string, error) {
	var generated []string
	options := FileWalkOptions{
		FileFilter:      fp.GeneratedFileFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
	}

	for _, rootDir := range rootDirs {
		candidates, err := fp.WalkFiles(rootDir, options)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			ok, err := HasGeneratedHeader(candidate, headerPrefix)
			if err != nil {
				return nil, err
			}
			if ok {
				generated = append(generated, candidate)
			}
		}
	}

	sort.Strings(generated)
	return generated, nil
}

// RemoveFiles deletes files, returning those removed before any failure
func (fp *FileProcessor) RemoveFiles(paths []string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// HasGeneratedHeader reports whether a comment line before the package
// clause starts with headerPrefix
func HasGeneratedHeader(path, headerPrefix string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, errors.WrapFileSystemError("open", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, headerPrefix) {
			return true, nil
		}
		if strings.HasPrefix(line, "package ") {
			return false, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, errors.WrapFileSystemError("read", path, err)
	}
	return false, nil
}
