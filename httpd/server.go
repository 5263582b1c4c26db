package httpd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/nvoss/sitemount/mimetype"
	"github.com/nvoss/sitemount/sitemap"
	"github.com/nvoss/sitemount/weblog"
)

// Server serves one request at a time from its site map. It owns the
// mount table, the MIME table, and the log sinks for its lifetime.
type Server struct {
	cfg        Config
	table      *sitemap.Table
	types      *mimetype.Table
	dispatcher *sitemap.Dispatcher
	access     *weblog.Logger
	errlog     *weblog.Logger
	diag       *zap.Logger

	mu sync.Mutex
	ln net.Listener
}

// NewServer builds a Server from cfg, applying defaults and
// registering any static mounts declared in the configuration.
func NewServer(cfg Config) (*Server, error) {
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		table:  sitemap.NewTable(),
		types:  mimetype.NewTable(),
		access: weblog.New(cfg.accessLog()),
		errlog: weblog.New(cfg.errorLog()),
		diag:   diag,
	}

	s.dispatcher = &sitemap.Dispatcher{
		Table:     s.table,
		Types:     s.types,
		IndexFile: cfg.indexFile(),
		Indexing:  cfg.indexing(),
		AccessLog: s.access,
		ErrorLog:  s.errlog,
		Diag:      diag,
		Metrics:   cfg.Metrics,
	}

	for _, mc := range cfg.Mounts {
		if mc.URI == "" || mc.Path == "" {
			return nil, fmt.Errorf("httpd: config mount needs uri and path, got uri=%q path=%q", mc.URI, mc.Path)
		}
		if err := s.Register(mc.URI, sitemap.Spec{Path: mc.Path, Wildcard: mc.Wildcard}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Register adds a mount to the site map and writes one informational
// log line describing it.
func (s *Server) Register(uriPath string, spec sitemap.Spec) error {
	m, err := s.table.Register(uriPath, spec)
	if err != nil {
		return err
	}

	switch m.Kind {
	case sitemap.KindStatic:
		s.access.Printf("mounted %s kind=%s target=%s wildcard=%t", m.URIPath, m.Kind, m.Path, m.Wildcard)
	default:
		s.access.Printf("mounted %s kind=%s wildcard=%t", m.URIPath, m.Kind, m.Wildcard)
	}

	s.cfg.Metrics.SetMounts(s.table.Len())
	return nil
}

// AddType forwards a MIME registration to the server's MIME table.
func (s *Server) AddType(mimeType string, extensions ...string) {
	s.types.AddType(mimeType, extensions...)
}

// Handle dispatches one already-parsed request, for embedders that
// bring their own transport.
func (s *Server) Handle(req *sitemap.Request) *sitemap.Response {
	return s.dispatcher.Handle(req)
}

// Table returns the server's site map.
func (s *Server) Table() *sitemap.Table {
	return s.table
}

// Addr returns the listening address, or nil before Serve has bound a
// listener. Useful when the configured port is 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close closes the listener, unblocking a running Serve loop.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// ListenAndServe binds the configured host and port and serves until
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.host(), strconv.Itoa(s.cfg.port()))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpd: listen %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts and handles connections on ln, one at a time, until
// ctx is cancelled or ln is closed. Each accept wait is bounded by the
// configured timeout so cancellation is noticed within one timeout
// interval; an in-flight request always completes.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// The listener itself enforces the one-connection model, so a
	// caller driving Serve from several goroutines still cannot
	// create parallel requests.
	limited := netutil.LimitListener(ln, 1)
	defer limited.Close()

	s.mu.Lock()
	s.ln = limited
	s.mu.Unlock()

	deadliner, hasDeadline := ln.(interface{ SetDeadline(time.Time) error })

	s.diag.Info("serving", zap.String("addr", ln.Addr().String()),
		zap.Duration("timeout", s.cfg.timeout()))

	for {
		if ctx.Err() != nil {
			s.diag.Info("stop flag set, shutting down")
			return nil
		}

		if hasDeadline {
			if err := deadliner.SetDeadline(time.Now().Add(s.cfg.timeout())); err != nil {
				return fmt.Errorf("httpd: set accept deadline: %w", err)
			}
		}

		conn, err := limited.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// Timeout wake: loop back to check the stop flag.
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.diag.Warn("accept failed", zap.Error(err))
			continue
		}

		s.handleConn(conn)
	}
}

// handleConn parses one request from conn, dispatches it, and writes
// the finished response back. The connection is closed afterwards.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(s.cfg.timeout())); err != nil {
		s.diag.Debug("set connection deadline failed", zap.Error(err))
		return
	}

	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		s.diag.Debug("request parse failed",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Error(err))
		return
	}
	defer req.Body.Close()

	sreq := &sitemap.Request{
		Method:     req.Method,
		Path:       sitemap.CleanPath(req.URL.Path),
		RawQuery:   req.URL.RawQuery,
		Header:     req.Header,
		Body:       req.Body,
		RemoteAddr: conn.RemoteAddr().String(),
	}

	resp := s.dispatcher.Handle(sreq)

	if err := writeResponse(conn, resp, req.Method == http.MethodHead); err != nil {
		s.diag.Debug("response write failed",
			zap.String("request_id", sreq.ID),
			zap.Error(err))
	}
}
