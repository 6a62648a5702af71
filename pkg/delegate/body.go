package delegate

import (
	"github.com/toyz/delegate/pkg/codegen"
)

// synthesizeMethod builds one delegated method. The body runs, in order:
//
//	Before
//	defer AlwaysAfter
//	defer recover: OnFailure, then re-panic
//	the delegate call
//	on a non-nil error: OnFailure, then return the error unchanged
//	OnSuccess
//	return
//
// Before runs ahead of the deferred handlers, so a failing Before triggers
// neither OnFailure nor AlwaysAfter. Deferred handlers are only emitted for
// strategies supplying OnFailure or AlwaysAfter. OnFailure runs at most once
// per call: when the error branch already ran it, a panic raised from there
// is re-panicked without running it again.
func synthesizeMethod(strategy Strategy, args DelegateMethodArguments, fn *codegen.FuncSpec, shape methodShape) {
	failure := LocalVariable{Type: codegen.Error(), Name: failureName}
	results := shape.resultLocals()

	before := strategy.Before(args)
	onSuccess := strategy.OnSuccess(args, results)
	onFailure := strategy.OnFailure(args, failure)
	alwaysAfter := strategy.AlwaysAfter(args)

	body := fn.Body
	body.AddCode(before)

	if alwaysAfter != nil {
		body.BeginControlFlow("defer func()").
			AddCode(alwaysAfter).
			EndControlFlowWith("()")
	}
	guarded := onFailure != nil && shape.hasError
	if onFailure != nil {
		if guarded {
			body.AddStatement("var $N bool", handledName)
		}
		body.BeginControlFlow("defer func()").
			BeginControlFlow("if $N := recover(); $N != nil", recoveredName, recoveredName)
		if guarded {
			body.BeginControlFlow("if !$N", handledName)
		}
		body.AddStatement("$N, _ := $N.(error)", failure, recoveredName).
			BeginControlFlow("if $N == nil", failure).
			AddStatement("$N = $T($S, $N)", failure, codegen.Qualified("fmt", "Errorf"), "panic: %v", recoveredName).
			EndControlFlow().
			AddCode(onFailure)
		if guarded {
			body.EndControlFlow()
		}
		body.AddStatement("panic($N)", recoveredName).
			EndControlFlow().
			EndControlFlowWith("()")
	}

	call := delegateInvocation(args, fn)

	// nothing observes the results: forward them directly
	if onSuccess == nil && (onFailure == nil || !shape.hasError) {
		if shape.isVoid() {
			body.AddStatement("$L", call)
		} else {
			body.AddStatement("return $L", call)
		}
		return
	}

	var locals []*codegen.CodeBlock
	for _, result := range results {
		locals = append(locals, codegen.Code("$N", result))
	}
	if shape.hasError {
		locals = append(locals, codegen.Code("$N", failure))
	}

	if len(locals) == 0 {
		body.AddStatement("$L", call)
	} else {
		body.AddStatement("$L := $L", codegen.Join(locals, ", "), call)
	}

	if shape.hasError {
		body.BeginControlFlow("if $N != nil", failure)
		if guarded {
			body.AddStatement("$N = true", handledName)
		}
		body.AddCode(onFailure).
			AddStatement("return $L", codegen.Join(locals, ", ")).
			EndControlFlow()
	}

	body.AddCode(onSuccess)

	if !shape.isVoid() {
		returned := locals
		if shape.hasError {
			returned = append(locals[:len(locals)-1:len(locals)-1], codegen.Code("nil"))
		}
		body.AddStatement("return $L", codegen.Join(returned, ", "))
	}
}
