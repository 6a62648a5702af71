// Package strategies holds the strategies shipped with the delegate command.
package strategies

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

// Builtins returns a fresh instance of every built-in strategy
func Builtins() []delegate.Strategy {
	return []delegate.Strategy{
		Passthrough{},
		Printing{},
		Logging{},
		Timing{},
	}
}

var (
	fmtPrintln  = codegen.Qualified("fmt", "Println")
	fmtFprintln = codegen.Qualified("fmt", "Fprintln")
	osStderr    = codegen.Qualified("os", "Stderr")
)

// addFactory exposes the unexported constructor of an exported wrapper as
// New<Wrapper>. Unexported wrappers already have everything they need.
func addFactory(args delegate.CustomizeArguments, spec *codegen.TypeSpec) {
	if !args.Type.Object().Exported() {
		return
	}

	fn := codegen.NewFunc("New" + spec.Name)
	fn.Doc = []string{fmt.Sprintf("%s wraps a %s.", fn.Name, strings.Join(interfaceNames(args.Type), " and "))}
	fn.TypeParams = spec.CopyTypeParams()
	fn.Returns(codegen.Pointer(args.GeneratedTypeName))

	var values []*codegen.CodeBlock
	for _, field := range spec.Fields {
		if field.Initializer != nil {
			continue
		}
		fn.AddParam(field.Name, field.Type)
		values = append(values, codegen.Code("$N", field))
	}
	fn.Body.AddStatement("return $N$L($L)", args.Constructor, typeArguments(spec), codegen.Join(values, ", "))
	spec.AddFunc(fn)
}

func typeArguments(spec *codegen.TypeSpec) string {
	if len(spec.TypeParams) == 0 {
		return ""
	}
	names := make([]string, len(spec.TypeParams))
	for i, param := range spec.TypeParams {
		names[i] = param.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func interfaceNames(t *delegate.AnnotatedType) []string {
	var names []string
	for _, iface := range t.Interfaces() {
		names = append(names, codegen.Render(codegen.TypeOf(iface), t.Package().Path()))
	}
	return names
}

// upperFirst capitalizes name so it can follow a prefix
func upperFirst(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}
