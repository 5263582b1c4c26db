package sitemap

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"runtime/debug"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvoss/sitemount/mimetype"
	"github.com/nvoss/sitemount/weblog"
	"github.com/nvoss/sitemount/webmetrics"
)

// Client-visible messages for locally resolved failures.
const (
	msgNotFound       = "Not Found in Site Map"
	msgRedirectNoBase = "Handler Tried to Redirect Without Setting Base Path"
	msgCorruptSiteMap = "Corrupt Site Map"
	msgIndexingOff    = "Directory Indexing Not Allowed"
)

// Dispatcher produces one finished response per request: it matches the
// request path against the site map, serves a static file or invokes a
// handler, resolves the outcome into a final status code and handling
// mode, and logs exactly one outcome.
type Dispatcher struct {
	// Table is the site map requests are matched against. Required.
	Table *Table

	// Types resolves content types for static files. When nil, a table
	// backed purely by the platform MIME registry is used.
	Types *mimetype.Table

	// IndexFile is served when a static match lands on a directory.
	// Empty means "index.html".
	IndexFile string

	// Indexing enables the auto-generated listing for static
	// directories that have no index file.
	Indexing bool

	// AccessLog receives outcome lines for 200, 401, and 404 results.
	// ErrorLog receives outcome lines for every non-200 result. Either
	// may be nil.
	AccessLog *weblog.Logger
	ErrorLog  *weblog.Logger

	// Diag receives server-side diagnostic detail such as handler
	// failure causes and panic stacks. Detail never reaches the client
	// body. When nil, only the outcome lines are kept.
	Diag *zap.Logger

	// Metrics, when set, records every dispatched request.
	Metrics *webmetrics.Collector
}

// Handle matches and serves one request, returning the finished
// response for the transport layer to send.
func (d *Dispatcher) Handle(req *Request) *Response {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	resp := NewResponse()
	resp.Header.Set("X-Request-Id", req.ID)

	res, err := d.Table.Match(req.Path)
	if err != nil {
		return d.finishError(req.Path, resp, http.StatusNotFound, msgNotFound)
	}

	req.MountPath = res.MountPath
	req.PathInfo = res.PathInfo

	switch res.Mount.Kind {
	case KindStatic:
		return d.serveStatic(res, resp)
	case KindDynamic:
		return d.serveHandler(req, res, resp)
	default:
		return d.finishError(res.FullPath, resp, http.StatusInternalServerError, msgCorruptSiteMap)
	}
}

// serveHandler invokes the mount's handler and applies the outcome
// resolution policy.
func (d *Dispatcher) serveHandler(req *Request, res *MatchResult, resp *Response) *Response {
	out := d.invoke(res.Mount.Handler, req, resp)

	code, mode := resolve(out, resp.Code)

	switch mode {
	case ModeSuccess:
		if resp.Header.Get("Content-Type") == "" {
			resp.Header.Set("Content-Type", "text/html")
		}
		resp.Code = code
		d.logOutcome(code, fmt.Sprintf("%d %s", code, res.FullPath))
		return resp

	case ModeRedirect:
		loc, ok := redirectLocation(resp.Redirect)
		if !ok {
			return d.finishError(res.FullPath, resp, http.StatusInternalServerError, msgRedirectNoBase)
		}
		resp.Code = code
		resp.Header.Set("Location", loc)
		resp.Body.Reset()
		d.logOutcome(code, fmt.Sprintf("%d %s -> %s", code, res.FullPath, loc))
		return resp

	case ModeError:
		if err := out.Err(); err != nil {
			d.diag().Error("handler failed",
				zap.String("path", res.FullPath),
				zap.String("request_id", req.ID),
				zap.Error(err))
		}
		return d.finishError(res.FullPath, resp, code, resp.Message)

	default:
		msg := fmt.Sprintf("Handler Returned an Unimplemented Response Code: %d", code)
		return d.finishError(res.FullPath, resp, http.StatusNotImplemented, msg)
	}
}

// invoke runs the handler, converting a panic into a failed outcome so
// one bad handler cannot take down the serving loop. The panic value
// and stack go to the diagnostics log only.
func (d *Dispatcher) invoke(h HandlerFunc, req *Request, resp *Response) (out Outcome) {
	defer func() {
		if v := recover(); v != nil {
			d.diag().Error("handler panic",
				zap.String("path", req.Path),
				zap.String("request_id", req.ID),
				zap.Any("panic", v),
				zap.String("stack", string(debug.Stack())))
			out = Failed(fmt.Errorf("handler panic: %v", v))
		}
	}()

	return h(req, resp)
}

// finishError turns resp into an error response with the given status
// and message, logging the outcome. An empty msg falls back to the
// standard reason phrase.
func (d *Dispatcher) finishError(fullPath string, resp *Response, code int, msg string) *Response {
	if msg == "" {
		msg = reasonPhrase(code)
	}

	resp.Code = code
	resp.Message = msg
	resp.Body.Reset()
	resp.Header.Set("Content-Type", "text/html")
	fmt.Fprintf(&resp.Body,
		"<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>\n",
		code, html.EscapeString(msg), code, html.EscapeString(msg))

	d.logOutcome(code, fmt.Sprintf("%d %s: %s", code, fullPath, msg))
	return resp
}

// logOutcome writes the per-request outcome line: 200, 401, and 404 go
// to the access log, every non-200 to the error log. Called exactly
// once per dispatched request, so metrics are observed here as well.
func (d *Dispatcher) logOutcome(code int, line string) {
	switch code {
	case http.StatusOK, http.StatusUnauthorized, http.StatusNotFound:
		d.AccessLog.Print(line)
	}

	if code != http.StatusOK {
		d.ErrorLog.Print(line)
	}

	d.Metrics.ObserveRequest(code)
}

func (d *Dispatcher) diag() *zap.Logger {
	if d.Diag == nil {
		return zap.NewNop()
	}
	return d.Diag
}

func (d *Dispatcher) types() *mimetype.Table {
	if d.Types == nil {
		d.Types = mimetype.NewTable()
	}
	return d.Types
}

func (d *Dispatcher) indexFile() string {
	if d.IndexFile == "" {
		return "index.html"
	}
	return d.IndexFile
}

// redirectLocation extracts the path component of a fully qualified
// redirect target. It reports false when the target is empty or not an
// absolute URL.
func redirectLocation(target string) (string, bool) {
	if target == "" {
		return "", false
	}

	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return "", false
	}

	if u.Path == "" {
		return "/", true
	}
	return u.Path, true
}

// reasonPhrase returns the standard reason phrase for code, or
// "Unknown" for codes net/http has no text for.
func reasonPhrase(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}
