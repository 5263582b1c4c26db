package sitemap

import (
	"path"
	"strings"
)

// Kind discriminates what a mount serves.
type Kind int

const (
	// KindStatic serves files from a filesystem target.
	KindStatic Kind = iota + 1

	// KindDynamic invokes a registered handler function.
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Spec describes one registration. Exactly one of Path or Handler must
// be set.
type Spec struct {
	// Path is the filesystem file or directory served by the mount.
	Path string

	// Handler is invoked for requests matching the mount.
	Handler HandlerFunc

	// Wildcard controls whether the mount also matches request paths
	// strictly deeper than its own URI path. When nil, a static mount
	// whose Path is a directory defaults to true and everything else
	// to false.
	Wildcard *bool
}

// Mount is a registered binding from a normalized URI path to either a
// static filesystem target or a handler.
type Mount struct {
	// URIPath is the normalized mount path: no trailing slash except
	// for root.
	URIPath string

	// Depth is the number of non-empty path segments (root is 0).
	Depth int

	// Kind is KindStatic or KindDynamic.
	Kind Kind

	// Path is the filesystem target. Set for KindStatic only.
	Path string

	// Handler is the registered handler. Set for KindDynamic only.
	Handler HandlerFunc

	// Wildcard reports whether the mount also matches deeper paths.
	Wildcard bool
}

// CleanPath returns the canonical form of p, eliminating . and ..
// elements per RFC 3986 Section 5.2.4 (remove dot segments).
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// normalizeMountPath ensures a leading slash and strips trailing
// slashes. Root stays "/".
func normalizeMountPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}

// splitSegments returns the non-empty slash-separated segments of p.
func splitSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
