package parser

import (
	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/pkg/delegate"
	"golang.org/x/tools/go/packages"
)

// ElementDiscoverer finds annotated declarations in loaded packages
type ElementDiscoverer interface {
	Discover() ([]delegate.Element, error)
	DiscoverPackage(pkg *packages.Package, errs *errors.MultipleErrors) []delegate.Element
}

var _ ElementDiscoverer = (*Parser)(nil)
