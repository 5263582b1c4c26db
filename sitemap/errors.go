package sitemap

import (
	"errors"
	"fmt"
)

// ErrNoRouteMatch is returned by Table.Match when no mount applies to
// the request path. This includes the case where the closest path match
// is a non-wildcard mount above the request depth: such a mount closes
// the search without consulting anything shallower.
var ErrNoRouteMatch = errors.New("sitemap: no mount matches the request path")

// MountSpecError reports a registration whose spec does not carry
// exactly one of a filesystem path or a handler.
type MountSpecError struct {
	URIPath string
	Reason  string
}

func (e *MountSpecError) Error() string {
	return fmt.Sprintf("sitemap: invalid mount spec for %q: %s", e.URIPath, e.Reason)
}
