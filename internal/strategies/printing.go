package strategies

import (
	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

// Printing generates Printing<Type>, which prints the method name before
// each call, the results after it and "done" once the call is over.
// Failures go to stderr.
type Printing struct {
	delegate.NoopStrategy
}

func (Printing) Name() string { return "printing" }

func (Printing) SupportedAnnotations() []string {
	return []string{"Printing"}
}

func (Printing) GeneratedTypeName(name string) string {
	return "Printing" + upperFirst(name)
}

func (Printing) Before(args delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$T($S)", fmtPrintln, args.Method.Name())
}

func (Printing) OnSuccess(_ delegate.DelegateMethodArguments, values []delegate.LocalVariable) *codegen.CodeBlock {
	if len(values) == 0 {
		return codegen.Statement("$T($S)", fmtPrintln, "void")
	}
	parts := make([]*codegen.CodeBlock, len(values))
	for i, value := range values {
		parts[i] = codegen.Code("$N", value)
	}
	return codegen.Statement("$T($L)", fmtPrintln, codegen.Join(parts, ", "))
}

func (Printing) OnFailure(_ delegate.DelegateMethodArguments, failure delegate.LocalVariable) *codegen.CodeBlock {
	return codegen.Statement("$T($T, $N)", fmtFprintln, osStderr, failure)
}

func (Printing) AlwaysAfter(delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$T($S)", fmtPrintln, "done")
}

func (Printing) Customize(args delegate.CustomizeArguments, spec *codegen.TypeSpec) {
	addFactory(args, spec)
}
