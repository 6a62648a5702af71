package models

import (
	"sort"
	"time"
)

// GenerationSummary contains information about a generation run
type GenerationSummary struct {
	PackagesProcessed int
	ElementsFound     int            // annotated declarations discovered
	TypesGenerated    map[string]int // generated wrappers per strategy
	GeneratedFiles    []string
	Errors            int
	Warnings          int
	DryRun            bool
	Duration          time.Duration
}

// NewGenerationSummary creates an empty summary
func NewGenerationSummary() *GenerationSummary {
	return &GenerationSummary{TypesGenerated: make(map[string]int)}
}

// AddGenerated records the files one strategy wrote
func (s *GenerationSummary) AddGenerated(strategy string, files []string) {
	s.TypesGenerated[strategy] += len(files)
	s.GeneratedFiles = append(s.GeneratedFiles, files...)
}

// TotalTypes returns the number of generated wrappers over all strategies
func (s *GenerationSummary) TotalTypes() int {
	total := 0
	for _, n := range s.TypesGenerated {
		total += n
	}
	return total
}

// Strategies returns the strategies that generated at least one wrapper, sorted
func (s *GenerationSummary) Strategies() []string {
	var names []string
	for name, n := range s.TypesGenerated {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Failed reports whether any error diagnostic was produced
func (s *GenerationSummary) Failed() bool {
	return s.Errors > 0
}
