package registry

import "github.com/toyz/delegate/pkg/delegate"

// StrategyRegistry defines the interface for looking up wrapper strategies by name
type StrategyRegistry interface {
	Register(strategy delegate.Strategy) error
	Get(name string) (delegate.Strategy, bool)
	Has(name string) bool
	List() []string
	Select(names []string) ([]delegate.Strategy, error)
}

var _ StrategyRegistry = (*Registry)(nil)
