package sitemap

import "net/http"

// HandlerFunc is the contract for dynamic mounts: it receives the
// request context and the response sink and returns an Outcome. The
// request exposes the matched MountPath and PathInfo; the response
// accepts a status code, headers, body content, and a redirect target.
type HandlerFunc func(req *Request, resp *Response) Outcome

// Outcome is a handler's result: success with an optional numeric
// status hint, or failure with detail. Failure detail reaches the
// server-side logs only, never the client.
type Outcome struct {
	ok   bool
	hint int
	err  error
}

// Done reports success with no status hint.
func Done() Outcome {
	return Outcome{ok: true}
}

// DoneCode reports success with a numeric status hint. Hints below 100
// are not HTTP status codes and are ignored during resolution.
func DoneCode(code int) Outcome {
	return Outcome{ok: true, hint: code}
}

// Failed reports handler failure. The error is logged server-side; the
// client receives a plain 500.
func Failed(err error) Outcome {
	return Outcome{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.ok && o.err == nil
}

// Err returns the failure detail, if any.
func (o Outcome) Err() error {
	return o.err
}

// Mode classifies how the Dispatcher finishes a response, derived from
// the final status code's standard HTTP range.
type Mode int

const (
	// ModeSuccess covers 2xx codes.
	ModeSuccess Mode = iota + 1

	// ModeRedirect covers 3xx codes.
	ModeRedirect

	// ModeError covers 4xx and 5xx codes.
	ModeError

	// ModeUnclassified covers everything else, such as 1xx or
	// out-of-range codes.
	ModeUnclassified
)

func (m Mode) String() string {
	switch m {
	case ModeSuccess:
		return "success"
	case ModeRedirect:
		return "redirect"
	case ModeError:
		return "error"
	case ModeUnclassified:
		return "unclassified"
	default:
		return "unknown"
	}
}

// resolve turns a handler outcome and any status the handler set on
// the response (zero meaning unset) into the final status code and
// handling mode. Failure always resolves to 500/error. Otherwise an
// explicit response status wins over the outcome's numeric hint, and
// hints below 100 fall through to 200.
func resolve(o Outcome, explicit int) (int, Mode) {
	if !o.OK() {
		return http.StatusInternalServerError, ModeError
	}

	code := http.StatusOK
	switch {
	case explicit != 0:
		code = explicit
	case o.hint >= 100:
		code = o.hint
	}

	return code, classify(code)
}

// classify maps a status code to its handling mode by range.
func classify(code int) Mode {
	switch {
	case code >= 200 && code < 300:
		return ModeSuccess
	case code >= 300 && code < 400:
		return ModeRedirect
	case code >= 400 && code < 600:
		return ModeError
	default:
		return ModeUnclassified
	}
}
