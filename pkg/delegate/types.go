package delegate

import (
	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/codegen"
)

// DelegateTypeParameter names the type parameter introduced when no single
// interface covers all others
const DelegateTypeParameter = "DELEGATE"

// ResolveDelegateType picks the static type of the delegate field.
//
// One interface is used as is. With several, the first one assignable to
// every other wins: declaring a sub-interface next to the interfaces it
// embeds only needs the sub-interface. Otherwise a type parameter
// constrained by all interfaces is returned. The wrapper's interface list
// is not affected.
func ResolveDelegateType(args DelegateTypeArguments) codegen.TypeName {
	interfaces := args.Type.Interfaces()
	if len(interfaces) == 1 {
		return codegen.TypeOf(interfaces[0])
	}

	for _, candidate := range interfaces {
		allMatch := true
		for _, other := range interfaces {
			if !typegraph.IsAssignable(candidate, other) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return codegen.TypeOf(candidate)
		}
	}

	bounds := make([]codegen.TypeName, len(interfaces))
	for i, iface := range interfaces {
		bounds[i] = codegen.TypeOf(iface)
	}
	return codegen.NewTypeVariable(DelegateTypeParameter, bounds...)
}
