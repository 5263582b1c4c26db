// Package sitemap implements mount registration, request routing, and
// dispatch for the sitemount server.
//
// The site map is a collection of mounts: bindings from a URI path to
// either a static filesystem target or a handler function. Mounts are
// organized by path depth, and incoming request paths are matched
// depth-first, most specific first.
//
// # Mounts
//
// Register a static directory and a handler:
//
//	t := sitemap.NewTable()
//	t.Register("/assets", sitemap.Spec{Path: "/var/www/assets"})
//	t.Register("/api/ping", sitemap.Spec{Handler: pingHandler})
//
// A registration must carry exactly one of Path or Handler. A static
// mount whose target is a directory defaults to a wildcard mount: it
// also matches request paths strictly below its own. All other mounts
// default to exact matching. The default can be overridden per mount:
//
//	wc := true
//	t.Register("/api", sitemap.Spec{Handler: apiHandler, Wildcard: &wc})
//
// # Matching
//
// Match walks candidate depths from the request's own depth down to
// root. An entry at the request's exact depth always wins. An entry at
// a shallower depth wins only if it is a wildcard mount; a non-wildcard
// entry found there ends the search immediately, without consulting
// mounts above it. The portion of the request path beyond the matched
// mount is reported as path info:
//
//	res, err := t.Match("/assets/css/site.css")
//	// res.MountPath == "/assets", res.PathInfo == "css/site.css"
//
// # Handlers
//
// A handler receives the request context and a response sink and
// returns an Outcome:
//
//	func pingHandler(req *sitemap.Request, resp *sitemap.Response) sitemap.Outcome {
//	    resp.WriteString("pong")
//	    return sitemap.Done()
//	}
//
// Done reports plain success (200 unless the handler set a status on
// the response), DoneCode carries a numeric status hint, and Failed
// reports failure. Failure detail is logged server-side only; the
// client sees a bare 500.
//
// # Dispatch
//
// The Dispatcher ties the pieces together: it matches one request,
// serves a static file or invokes a handler, resolves the outcome into
// a final status code and handling mode, and writes one outcome line to
// the access or error log.
package sitemap
