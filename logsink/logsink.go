// Package logsink carries human-readable diagnostic lines out of the
// firmware. Sinks are fire-and-forget: a failing writer is never reported
// back to the caller.
package logsink

import (
	"io"
	"sync"

	"beacon-go/x/fmtx"
)

// Sink accepts one diagnostic line at a time. The line carries no trailing
// newline; the sink adds its own terminator.
type Sink interface {
	WriteLine(s string)
}

// Printf formats a line and hands it to s. A nil sink drops the line.
func Printf(s Sink, format string, a ...any) {
	if s == nil {
		return
	}
	s.WriteLine(fmtx.Sprintf(format, a...))
}

// Writer writes lines to an io.Writer (UART on the board, stdout on a host).
type Writer struct {
	w   io.Writer
	eol string
}

// NewWriter returns a sink terminating lines with "\n".
func NewWriter(w io.Writer) *Writer { return &Writer{w: w, eol: "\n"} }

// NewSerial returns a sink terminating lines with "\r\n" for raw terminals.
func NewSerial(w io.Writer) *Writer { return &Writer{w: w, eol: "\r\n"} }

func (l *Writer) WriteLine(s string) {
	if l == nil || l.w == nil {
		return
	}
	_, _ = io.WriteString(l.w, s+l.eol)
}

// Discard drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteLine(string) {}

// Capture keeps lines in memory; the host console and tests read them back.
type Capture struct {
	mu    sync.Mutex
	lines []string
}

func (c *Capture) WriteLine(s string) {
	c.mu.Lock()
	c.lines = append(c.lines, s)
	c.mu.Unlock()
}

// Lines returns a copy of everything written so far.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Drain returns and clears the captured lines.
func (c *Capture) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.lines
	c.lines = nil
	return out
}
