package cli

import (
	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	dryRun        bool
}

// NewCleaner creates a cleaner for files starting with prefix
func NewCleaner(prefix string) *Cleaner {
	fileProcessor := utils.NewFileProcessor()
	fileProcessor.SetGeneratedPrefix(prefix)
	return &Cleaner{fileProcessor: fileProcessor}
}

// SetDryRun makes the cleaner list files without removing them
func (c *Cleaner) SetDryRun(dryRun bool) {
	c.dryRun = dryRun
}

// CleanGeneratedFiles removes the generated files under the given directories
// and returns their paths. Only files carrying the generated prefix and the
// generated header are touched.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	roots := make([]string, len(directories))
	for i, dir := range directories {
		roots[i] = moduleStartDir([]string{dir})
	}

	generated, err := c.fileProcessor.FindGeneratedFiles(roots, parser.GeneratedHeaderPrefix)
	if err != nil {
		return nil, err
	}
	if c.dryRun {
		return generated, nil
	}
	return c.fileProcessor.RemoveFiles(generated)
}
