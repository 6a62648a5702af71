package annotations

import (
	"fmt"
	"strings"
)

// Prefix marks a comment line as a delegate annotation
const Prefix = "delegate::"

// ImplementsParameter lists the interfaces a concrete type declares, in order
const ImplementsParameter = "Implements"

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns a file:line:column representation
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation represents a fully parsed //delegate:: annotation
type ParsedAnnotation struct {
	Name       string            // annotation name, matched against strategy annotations
	Parameters map[string]string // -Key=Value pairs, flags map to "true"
	Order      []string          // parameter keys in source order
	Location   SourceLocation    // Source location
	Raw        string            // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if value, exists := p.Parameters[name]; exists {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool reports whether a flag is set; -Flag and -Flag=true are equivalent
func (p *ParsedAnnotation) GetBool(name string) bool {
	value, exists := p.Parameters[name]
	if !exists {
		return false
	}
	return value == "true" || value == "1"
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(name string) bool {
	_, exists := p.Parameters[name]
	return exists
}

// GetList splits a comma separated parameter. Commas nested inside brackets or
// parentheses do not split, so "Store[K, V], io.Closer" yields two entries.
func (p *ParsedAnnotation) GetList(name string) []string {
	value, exists := p.Parameters[name]
	if !exists {
		return nil
	}
	return SplitList(value)
}

// SplitList splits a comma separated list of Go type expressions
func SplitList(value string) []string {
	var (
		items []string
		depth int
		start int
	)
	for i, r := range value {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				items = appendTrimmed(items, value[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(items, value[start:])
}

func appendTrimmed(items []string, item string) []string {
	item = strings.TrimSpace(item)
	if item == "" {
		return items
	}
	return append(items, item)
}
