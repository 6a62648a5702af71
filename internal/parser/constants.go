package parser

const (
	// AnnotationPrefix marks delegate annotations in doc comments
	AnnotationPrefix = "delegate::"

	// GeneratedHeaderPrefix starts the header of every generated file
	GeneratedHeaderPrefix = "// Code generated by delegate"
)
