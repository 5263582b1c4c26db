package sitemap

import (
	"os"
	"sort"
	"sync"
)

// Table is the site map: every registered mount, organized first by
// depth and then by normalized URI path. At most one mount exists per
// (depth, path) pair; a later registration at the same pair overwrites
// the earlier one.
//
// The table is normally populated during a registration phase and only
// read while serving. A read-write mutex guards the maps so embedders
// that do register while serving stay correct.
type Table struct {
	mu      sync.RWMutex
	byDepth map[int]map[string]*Mount
}

// NewTable returns an empty site map.
func NewTable() *Table {
	return &Table{
		byDepth: make(map[int]map[string]*Mount),
	}
}

// Register validates spec, normalizes uriPath, and inserts the
// resulting mount, overwriting any previous mount at the same depth and
// path. When spec leaves Wildcard unset, a static mount targeting a
// directory becomes a wildcard mount and everything else an exact one.
// The created mount is returned so callers can log or inspect it.
func (t *Table) Register(uriPath string, spec Spec) (*Mount, error) {
	if (spec.Path != "") == (spec.Handler != nil) {
		return nil, &MountSpecError{
			URIPath: uriPath,
			Reason:  "exactly one of Path or Handler must be set",
		}
	}

	norm := normalizeMountPath(uriPath)

	m := &Mount{
		URIPath: norm,
		Depth:   len(splitSegments(norm)),
	}

	if spec.Path != "" {
		m.Kind = KindStatic
		m.Path = spec.Path
	} else {
		m.Kind = KindDynamic
		m.Handler = spec.Handler
	}

	switch {
	case spec.Wildcard != nil:
		m.Wildcard = *spec.Wildcard
	case m.Kind == KindStatic:
		m.Wildcard = isDir(spec.Path)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	depthMap := t.byDepth[m.Depth]
	if depthMap == nil {
		depthMap = make(map[string]*Mount)
		t.byDepth[m.Depth] = depthMap
	}
	depthMap[m.URIPath] = m

	return m, nil
}

// Lookup returns the mount registered at exactly (depth, uriPath).
func (t *Table) Lookup(depth int, uriPath string) (*Mount, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.byDepth[depth][uriPath]
	return m, ok
}

// Len returns the number of registered mounts.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var n int
	for _, depthMap := range t.byDepth {
		n += len(depthMap)
	}
	return n
}

// Mounts returns all registered mounts ordered by depth, then by URI
// path within each depth.
func (t *Table) Mounts() []*Mount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var mounts []*Mount
	for _, depthMap := range t.byDepth {
		for _, m := range depthMap {
			mounts = append(mounts, m)
		}
	}

	sort.Slice(mounts, func(i, j int) bool {
		if mounts[i].Depth != mounts[j].Depth {
			return mounts[i].Depth < mounts[j].Depth
		}
		return mounts[i].URIPath < mounts[j].URIPath
	})

	return mounts
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
