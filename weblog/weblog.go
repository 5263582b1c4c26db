// Package weblog implements the line-oriented access and error log
// sinks used by the sitemount server.
//
// Every logged event is a single line of the form:
//
//	[timestamp] [pid] message
//
// followed by a newline. The timestamp is RFC 3339 in the local time
// zone and the pid is the process ID, so interleaved logs from several
// server processes sharing one sink remain attributable.
//
// A nil *Logger is a valid no-op sink, so callers do not need to guard
// every log call.
package weblog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger appends one formatted line per event to an io.Writer.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	pid int
	now func() time.Time
}

// New returns a Logger writing to w. A nil w falls back to os.Stdout.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	return &Logger{
		w:   w,
		pid: os.Getpid(),
		now: time.Now,
	}
}

// Print writes msg as one log line. A nil Logger discards the event.
func (l *Logger) Print(msg string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, "[%s] [%d] %s\n", l.now().Format(time.RFC3339), l.pid, msg)
}

// Printf formats per fmt.Sprintf and writes the result as one log line.
func (l *Logger) Printf(format string, args ...any) {
	l.Print(fmt.Sprintf(format, args...))
}
