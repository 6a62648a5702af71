package models

import "fmt"

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeConfiguration ErrorType = iota
	ErrorTypeAnnotationSyntax
	ErrorTypeValidation
	ErrorTypeLoad
	ErrorTypeGeneration
	ErrorTypeFileSystem
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeConfiguration:    "Configuration Error",
	ErrorTypeAnnotationSyntax: "Annotation Syntax Error",
	ErrorTypeValidation:       "Validation Error",
	ErrorTypeLoad:             "Package Load Error",
	ErrorTypeGeneration:       "Code Generation Error",
	ErrorTypeFileSystem:       "File System Error",
}

// String returns a human readable name for the error type
func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return "Unknown Error"
}

// GeneratorError represents an error that stopped a CLI run
type GeneratorError struct {
	Type        ErrorType              // type of error
	File        string                 // file where error occurred
	Line        int                    // line number where error occurred
	Message     string                 // error message
	Cause       error                  // underlying error cause
	Suggestions []string               // actionable hints for the user
	Context     map[string]interface{} // extra details shown in reports
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
