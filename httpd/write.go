package httpd

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nvoss/sitemount/sitemap"
)

const serverToken = "sitemount"

// writeResponse serializes resp to w as an HTTP/1.1 response. The
// connection is always marked closed: the server handles exactly one
// request per connection. For HEAD requests the body is suppressed but
// Content-Length still describes it.
func writeResponse(w io.Writer, resp *sitemap.Response, headOnly bool) error {
	code := resp.Code
	if code == 0 {
		code = http.StatusOK
	}

	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	header.Set("Content-Length", strconv.Itoa(resp.Body.Len()))
	header.Set("Connection", "close")
	if header.Get("Date") == "" {
		header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	}
	if header.Get("Server") == "" {
		header.Set("Server", serverToken)
	}

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", code, statusText(code)); err != nil {
		return err
	}

	// http.Header.Write emits fields sorted by name.
	if err := header.Write(bw); err != nil {
		return err
	}

	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}

	if !headOnly {
		if _, err := bw.Write(resp.Body.Bytes()); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// statusText returns the standard reason phrase for code, or "Unknown"
// for codes net/http has no text for.
func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}
