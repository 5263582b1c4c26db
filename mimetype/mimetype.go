// Package mimetype resolves response content types from file
// extensions. Lookup consults extensions registered via AddType first
// and falls back to the platform MIME table.
package mimetype

import (
	"mime"
	"path"
	"strings"
)

// DefaultType is returned when neither the override table nor the
// platform table knows the extension.
const DefaultType = "application/octet-stream"

// Table maps file extensions to MIME types.
type Table struct {
	overrides map[string]string
}

// NewTable returns an empty Table. Lookups on an empty table resolve
// entirely through the platform MIME registry.
func NewTable() *Table {
	return &Table{
		overrides: make(map[string]string),
	}
}

// AddType registers mimeType for each of the given extensions.
// Extensions may be given with or without the leading dot and are
// matched case-insensitively. Later registrations overwrite earlier
// ones for the same extension.
func (t *Table) AddType(mimeType string, extensions ...string) {
	for _, ext := range extensions {
		t.overrides[normalizeExt(ext)] = mimeType
	}
}

// Lookup returns the MIME type for the extension of name, which may be
// a bare extension, a file name, or a path. Unknown extensions resolve
// to DefaultType.
func (t *Table) Lookup(name string) string {
	ext := normalizeExt(path.Ext(name))
	if ext == "." || ext == "" {
		// name had no extension; it may itself be one.
		ext = normalizeExt(name)
	}

	if mt, ok := t.overrides[ext]; ok {
		return mt
	}

	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}

	return DefaultType
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
