package strategies

import (
	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

const (
	observeField = "observe"
	startLocal   = "_start"
)

var (
	timeNow      = codegen.Qualified("time", "Now")
	timeSince    = codegen.Qualified("time", "Since")
	timeDuration = codegen.Qualified("time", "Duration")
)

// Timing generates Timed<Type>, which reports the duration of every call to
// an observer, whether the call returns, fails or panics.
type Timing struct {
	delegate.NoopStrategy
}

func (Timing) Name() string { return "timing" }

func (Timing) SupportedAnnotations() []string {
	return []string{"Timing"}
}

func (Timing) GeneratedTypeName(name string) string {
	return "Timed" + upperFirst(name)
}

func (Timing) AdditionalFields(delegate.AdditionalFieldsArguments) []codegen.FieldSpec {
	observer := codegen.Func([]codegen.TypeName{codegen.Local("string"), timeDuration}, nil)
	return []codegen.FieldSpec{codegen.Field(observeField, observer)}
}

func (Timing) Before(delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$N := $T()", startLocal, timeNow)
}

func (Timing) AlwaysAfter(args delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$N.$N($S, $T($N))", args.Receiver, observeField, args.Method.Name(), timeSince, startLocal)
}

func (Timing) Customize(args delegate.CustomizeArguments, spec *codegen.TypeSpec) {
	addFactory(args, spec)
}
