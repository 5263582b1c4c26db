package sitemap

import "strings"

// MatchResult describes where a request path landed in the site map.
// It is produced per request and never stored.
type MatchResult struct {
	// Mount is the matched mount.
	Mount *Mount

	// FullPath is the request path exactly as given to Match.
	FullPath string

	// MountPath is the matched mount's URI path.
	MountPath string

	// PathInfo is the slash-joined request segments beyond MountPath.
	// Empty when the match is exact.
	PathInfo string
}

// Match finds the most specific mount for requestPath, walking
// candidate depths from the request's own depth down toward root. A
// mount at the request's exact depth is accepted regardless of its
// wildcard flag. A mount at a shallower depth is accepted only when its
// wildcard flag is set; finding a non-wildcard mount there ends the
// search immediately with ErrNoRouteMatch, without consulting mounts
// above it. A non-wildcard mount therefore closes its entire subtree
// even when a wildcard ancestor exists.
func (t *Table) Match(requestPath string) (*MatchResult, error) {
	segs := splitSegments(requestPath)
	reqDepth := len(segs)

	for depth := reqDepth; depth >= 0; depth-- {
		mountPath := "/" + strings.Join(segs[:depth], "/")

		m, ok := t.Lookup(depth, mountPath)
		if !ok {
			continue
		}

		if depth < reqDepth && !m.Wildcard {
			return nil, ErrNoRouteMatch
		}

		return &MatchResult{
			Mount:     m,
			FullPath:  requestPath,
			MountPath: mountPath,
			PathInfo:  strings.Join(segs[depth:], "/"),
		}, nil
	}

	return nil, ErrNoRouteMatch
}
