package strategies

import (
	"strings"

	"github.com/toyz/delegate/pkg/codegen"
	"github.com/toyz/delegate/pkg/delegate"
)

const (
	// LevelParameter picks the slog level of call and return records:
	// debug (default), info or warn. Failures always log at error.
	LevelParameter = "Level"
	// DefaultLoggerParameter initializes the logger with slog.Default()
	// instead of taking it as a constructor parameter.
	DefaultLoggerParameter = "DefaultLogger"

	loggerField = "logger"
)

var (
	slogLogger  = codegen.Qualified("log/slog", "Logger")
	slogDefault = codegen.Qualified("log/slog", "Default")
)

var logLevels = map[string]string{
	"debug": "Debug",
	"info":  "Info",
	"warn":  "Warn",
}

// Logging generates Logging<Type>, which records every call with log/slog.
type Logging struct {
	delegate.NoopStrategy
}

func (Logging) Name() string { return "logging" }

func (Logging) SupportedAnnotations() []string {
	return []string{"Logging"}
}

func (Logging) GeneratedTypeName(name string) string {
	return "Logging" + upperFirst(name)
}

func (Logging) AdditionalFields(args delegate.AdditionalFieldsArguments) []codegen.FieldSpec {
	if level, ok := args.Type.Parameter(LevelParameter); ok {
		if _, known := logLevels[strings.ToLower(level)]; !known {
			args.Context.Warnf(args.Type.Object().Pos(), args.Type.Name(), "Unknown log level %q, using debug", level)
		}
	}

	field := codegen.Field(loggerField, codegen.Pointer(slogLogger))
	if value, ok := args.Type.Parameter(DefaultLoggerParameter); ok && value == "true" {
		field.Initializer = codegen.Code("$T()", slogDefault)
	}
	return []codegen.FieldSpec{field}
}

func (Logging) Before(args delegate.DelegateMethodArguments) *codegen.CodeBlock {
	return codegen.Statement("$N.$N.$N($S, $S, $S)",
		args.Receiver, loggerField, level(args.Type), "call", "method", args.Method.Name())
}

func (Logging) OnSuccess(args delegate.DelegateMethodArguments, _ []delegate.LocalVariable) *codegen.CodeBlock {
	return codegen.Statement("$N.$N.$N($S, $S, $S)",
		args.Receiver, loggerField, level(args.Type), "return", "method", args.Method.Name())
}

func (Logging) OnFailure(args delegate.DelegateMethodArguments, failure delegate.LocalVariable) *codegen.CodeBlock {
	return codegen.Statement("$N.$N.Error($S, $S, $S, $S, $N)",
		args.Receiver, loggerField, "failure", "method", args.Method.Name(), "error", failure)
}

func level(t *delegate.AnnotatedType) string {
	value, _ := t.Parameter(LevelParameter)
	if method, ok := logLevels[strings.ToLower(value)]; ok {
		return method
	}
	return "Debug"
}

func (Logging) Customize(args delegate.CustomizeArguments, spec *codegen.TypeSpec) {
	addFactory(args, spec)
}
