package delegate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/internal/typegraph/typegraphtest"
	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

// wrapperStrategy adds nothing to the delegated calls
type wrapperStrategy struct {
	delegate.NoopStrategy
}

func (wrapperStrategy) Name() string                   { return "wrapper" }
func (wrapperStrategy) SupportedAnnotations() []string { return []string{"Delegate"} }
func (wrapperStrategy) GeneratedTypeName(name string) string {
	return name + "Wrapper"
}

// hookStrategy supplies every body hook
type hookStrategy struct {
	delegate.NoopStrategy
	noSuccess, noFailure, noAfter bool
}

func (hookStrategy) Name() string                   { return "hooks" }
func (hookStrategy) SupportedAnnotations() []string { return []string{"Hooks"} }
func (hookStrategy) GeneratedTypeName(name string) string {
	return name + "Hooks"
}

var printLine = codegen.Qualified("fmt", "Println")

func (hookStrategy) Before(delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$T($S)", printLine, "before")
}

func (s hookStrategy) OnSuccess(_ delegate.DelegateMethodArguments, results []delegate.LocalVariable) *codegen.CodeBlock {
	if s.noSuccess {
		return nil
	}
	values := []*codegen.CodeBlock{codegen.Code("$S", "success")}
	for _, result := range results {
		values = append(values, codegen.Code("$N", result))
	}
	return codegen.Statement("$T($L)", printLine, codegen.Join(values, ", "))
}

func (s hookStrategy) OnFailure(_ delegate.DelegateMethodArguments, failure delegate.LocalVariable) *codegen.CodeBlock {
	if s.noFailure {
		return nil
	}
	return codegen.Statement("$T($S, $N)", printLine, "failure", failure)
}

func (s hookStrategy) AlwaysAfter(delegate.DelegateMethodArguments) *codegen.CodeBlock {
	if s.noAfter {
		return nil
	}
	return codegen.Statement("$T($S)", printLine, "after")
}

type result struct {
	graph       *typegraph.Graph
	dir         string
	files       *codegen.MemoryFiler
	diagnostics *delegate.MessageCollector
	written     []string
}

// file returns the generated file whose path ends in name
func (r *result) file(t *testing.T, name string) string {
	t.Helper()
	for path, content := range r.files.Files {
		if strings.HasSuffix(path, "/"+name) {
			return string(content)
		}
	}
	require.FailNow(t, "file not generated", "%s not in %v", name, r.files.Names())
	return ""
}

func (r *result) messages() []string {
	var messages []string
	for _, d := range r.diagnostics.Diagnostics {
		messages = append(messages, d.Severity.String()+": "+d.Message)
	}
	return messages
}

// process loads files, discovers annotations and runs strategy over them
func process(t *testing.T, strategy delegate.Strategy, files map[string]string) *result {
	t.Helper()
	return processWith(t, delegate.NewProcessor(strategy), files)
}

func processWith(t *testing.T, processor *delegate.Processor, files map[string]string) *result {
	t.Helper()
	return processLoaded(t, processor, files, typegraph.LoadOptions{})
}

func processLoaded(t *testing.T, processor *delegate.Processor, files map[string]string, opts typegraph.LoadOptions) *result {
	t.Helper()
	graph, dir := typegraphtest.LoadWith(t, files, opts)
	elements, err := parser.NewParser(graph).Discover()
	require.NoError(t, err)

	r := &result{
		graph:       graph,
		dir:         dir,
		files:       codegen.NewMemoryFiler(),
		diagnostics: &delegate.MessageCollector{},
	}
	ctx := &delegate.ProcessorContext{Graph: graph, Messager: r.diagnostics, Filer: r.files}
	r.written = processor.Process(ctx, elements)
	return r
}
