package sitemap

import (
	"bytes"
	"io"
	"net/http"
)

// Request carries one parsed request through dispatch. The transport
// layer fills the wire-level fields; MountPath and PathInfo are set by
// the Dispatcher once the site map match is known.
type Request struct {
	// Method is the HTTP request method.
	Method string

	// Path is the parsed URI path.
	Path string

	// RawQuery is the query string without the leading question mark.
	RawQuery string

	// Header holds the request headers.
	Header http.Header

	// Body is the request body as provided by the transport layer.
	Body io.Reader

	// RemoteAddr is the peer address.
	RemoteAddr string

	// ID is the per-request UUID assigned by the Dispatcher and echoed
	// in the X-Request-Id response header.
	ID string

	// MountPath is the URI path of the matched mount.
	MountPath string

	// PathInfo is the request path portion beyond MountPath.
	PathInfo string
}

// Response is the mutable response sink for one request. The
// Dispatcher creates it, a handler or the static file server fills it,
// and the transport discards it after sending.
type Response struct {
	// Code is the response status. Zero means not yet decided.
	Code int

	// Header is the response header mapping.
	Header http.Header

	// Body accumulates the response payload.
	Body bytes.Buffer

	// Redirect is the fully qualified URL a redirecting handler wants
	// the client sent to. Empty means no redirect target was set.
	Redirect string

	// Message is the short text used in error response bodies. When
	// empty, the standard reason phrase of the final code is used.
	Message string
}

// NewResponse returns a Response with an initialized header mapping,
// no status decided, and an empty body.
func NewResponse() *Response {
	return &Response{
		Header: make(http.Header),
	}
}

// Write appends p to the response body. Implements io.Writer.
func (r *Response) Write(p []byte) (int, error) {
	return r.Body.Write(p)
}

// WriteString appends s to the response body.
func (r *Response) WriteString(s string) {
	r.Body.WriteString(s)
}
