package sitemap

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// serveStatic serves a static mount: a readable file streams back with
// a MIME type derived from its extension, a directory resolves through
// the index file or the auto-generated listing, and a directory
// requested without a trailing slash redirects so relative links in the
// served content resolve correctly.
func (d *Dispatcher) serveStatic(res *MatchResult, resp *Response) *Response {
	candidate := filepath.Join(res.Mount.Path, filepath.FromSlash(res.PathInfo))

	info, err := os.Stat(candidate)
	isDir := err == nil && info.IsDir()

	if isDir && !strings.HasSuffix(res.FullPath, "/") {
		loc := res.FullPath + "/"
		resp.Code = http.StatusSeeOther
		resp.Header.Set("Location", loc)
		d.logOutcome(resp.Code, fmt.Sprintf("%d %s -> %s", resp.Code, res.FullPath, loc))
		return resp
	}

	servePath := candidate
	if isDir {
		servePath = filepath.Join(candidate, d.indexFile())
	}

	if d.streamFile(servePath, resp) {
		resp.Code = http.StatusOK
		resp.Header.Set("Content-Type", d.types().Lookup(servePath))
		d.logOutcome(resp.Code, fmt.Sprintf("%d %s", resp.Code, res.FullPath))
		return resp
	}

	if isDir {
		if !d.Indexing {
			return d.finishError(res.FullPath, resp, http.StatusForbidden, msgIndexingOff)
		}

		listing, err := renderListing(candidate, res.FullPath)
		if err == nil {
			resp.Code = http.StatusOK
			resp.Header.Set("Content-Type", "text/html")
			resp.WriteString(listing)
			d.logOutcome(resp.Code, fmt.Sprintf("%d %s", resp.Code, res.FullPath))
			return resp
		}

		d.diag().Error("directory listing failed",
			zap.String("path", candidate),
			zap.Error(err))
	}

	return d.finishError(res.FullPath, resp, http.StatusNotFound, "")
}

// streamFile copies the regular file at path into the response body.
// It reports false without touching the body when the file is missing,
// unreadable, or not regular.
func (d *Dispatcher) streamFile(path string, resp *Response) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if _, err := io.Copy(&resp.Body, f); err != nil {
		resp.Body.Reset()
		return false
	}

	return true
}

// renderListing builds the auto-index page for dir. Entries appear in
// lexicographic order by name (os.ReadDir guarantees the ordering),
// each as a link, preceded by a parent-directory link. Directory
// entries carry a trailing slash.
func renderListing(dir, fullPath string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	title := html.EscapeString(fullPath)
	fmt.Fprintf(&b, "<html><head><title>Index of %s</title></head><body>\n", title)
	fmt.Fprintf(&b, "<h1>Index of %s</h1>\n<ul>\n", title)
	b.WriteString("<li><a href=\"../\">../</a></li>\n")

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", name, html.EscapeString(name))
	}

	b.WriteString("</ul>\n</body></html>\n")
	return b.String(), nil
}
