package httpd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvoss/sitemount/sitemap"
)

// startServer runs srv on an ephemeral port and returns its base URL.
// The server is stopped and drained when the test finishes.
func startServer(t *testing.T, srv *Server) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()
		srv.Close()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	return "http://" + ln.Addr().String()
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.AccessLog == nil {
		cfg.AccessLog = io.Discard
	}
	if cfg.ErrorLog == nil {
		cfg.ErrorLog = io.Discard
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(500 * time.Millisecond)
	}

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	return srv
}

func TestServerServe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello world"), 0o644))

	srv := newTestServer(t, Config{})
	require.NoError(t, srv.Register("/site", sitemap.Spec{Path: dir}))
	require.NoError(t, srv.Register("/api/ping", sitemap.Spec{
		Handler: func(_ *sitemap.Request, resp *sitemap.Response) sitemap.Outcome {
			resp.Header.Set("Content-Type", "text/plain")
			resp.WriteString("pong")
			return sitemap.Done()
		},
	}))

	base := startServer(t, srv)

	t.Run("serves static file", func(t *testing.T) {
		resp, err := http.Get(base + "/site/hello.txt")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(body))
	})

	t.Run("invokes handler", func(t *testing.T) {
		resp, err := http.Get(base + "/api/ping")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "pong", string(body))
	})

	t.Run("unknown path yields 404", func(t *testing.T) {
		resp, err := http.Get(base + "/nowhere")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Not Found in Site Map")
	})

	t.Run("head omits body", func(t *testing.T) {
		resp, err := http.Head(base + "/site/hello.txt")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(len("hello world")), resp.ContentLength)
	})

	t.Run("dot segments cannot escape the mount", func(t *testing.T) {
		// The transport cleans the path before matching, so the
		// request below is routed as /hello.txt and finds no mount.
		conn, err := net.Dial("tcp", strings.TrimPrefix(base, "http://"))
		require.NoError(t, err)
		defer conn.Close()

		fmt.Fprintf(conn, "GET /site/../hello.txt HTTP/1.1\r\nHost: test\r\n\r\n")
		raw, err := io.ReadAll(conn)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "404")
	})
}

func TestServerStop(t *testing.T) {
	t.Run("context cancel stops within a timeout interval", func(t *testing.T) {
		srv := newTestServer(t, Config{Timeout: Duration(100 * time.Millisecond)})

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- srv.Serve(ctx, ln)
		}()

		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("serve loop did not notice the stop flag")
		}
	})

	t.Run("closing the listener stops the loop", func(t *testing.T) {
		srv := newTestServer(t, Config{})

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			done <- srv.Serve(context.Background(), ln)
		}()

		// Give the loop a moment to install the listener.
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, srv.Close())

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("serve loop did not stop on listener close")
		}
	})
}

func TestNewServer(t *testing.T) {
	t.Run("registers config mounts", func(t *testing.T) {
		dir := t.TempDir()
		srv := newTestServer(t, Config{
			Mounts: []MountConfig{{URI: "/site", Path: dir}},
		})

		m, ok := srv.Table().Lookup(1, "/site")
		require.True(t, ok)
		assert.Equal(t, sitemap.KindStatic, m.Kind)
		assert.True(t, m.Wildcard)
	})

	t.Run("rejects incomplete config mounts", func(t *testing.T) {
		_, err := NewServer(Config{
			AccessLog: io.Discard,
			ErrorLog:  io.Discard,
			Mounts:    []MountConfig{{URI: "/site"}},
		})
		assert.Error(t, err)
	})

	t.Run("registration logs one mount line", func(t *testing.T) {
		var access bytes.Buffer
		srv := newTestServer(t, Config{AccessLog: &access})

		require.NoError(t, srv.Register("/files", sitemap.Spec{Path: t.TempDir()}))

		assert.Contains(t, access.String(), "mounted /files kind=static")
		assert.Contains(t, access.String(), "wildcard=true")
		assert.Equal(t, 1, bytes.Count(access.Bytes(), []byte("\n")))
	})
}

func TestServerAddType(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.xyz"), []byte("data"), 0o644))

	srv := newTestServer(t, Config{})
	require.NoError(t, srv.Register("/site", sitemap.Spec{Path: dir}))
	srv.AddType("application/x-report", ".xyz")

	base := startServer(t, srv)

	resp, err := http.Get(base + "/site/report.xyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/x-report", resp.Header.Get("Content-Type"))
}
