// Package cmdctx implements the per-command I/O handle (spec.md §4.5):
// a buffered stdin/stdout pair plus a cooperative interactive line
// reader, generalized from the stdin/stdout plumbing the teacher wires
// around every exec call in mvdan.cc/sh/v3/interp.HandlerContext.
package cmdctx

import (
	"fmt"
	"strings"
)

// Mode is one of the three ways a Context can be constructed.
type Mode uint8

const (
	// Terminal: no stdin, writes go straight to the terminal sink.
	Terminal Mode = iota
	// Piped: stdin holds the previous pipeline stage's output, writes
	// are buffered for the next stage.
	Piped
	// Redirected: stdin optionally prefilled from a file, writes are
	// buffered to be flushed to a file afterwards.
	Redirected
)

// Reader is the cooperative suspension point readline uses to ask the
// outer REPL loop for a line of interactive input (spec.md §9 "Coroutine-
// style I/O"). It is supplied by whatever owns the real terminal.
type Reader func(prompt string) (string, error)

// ErrCancelled is returned by readline when the pending read is aborted
// by Ctrl+C (spec.md §5 "Cancellation").
var ErrCancelled = fmt.Errorf("cancelled")

// Context is the per-command I/O handle handlers receive.
type Context struct {
	mode Mode

	stdin      []string // pre-split input lines
	stdoutBuf  []string
	termWriter func(string)
	termErrer  func(string)
	reader     Reader
}

// NewTerminal builds a Context with no stdin that writes straight to the
// terminal via write/errWrite.
func NewTerminal(write, errWrite func(string), reader Reader) *Context {
	return &Context{mode: Terminal, termWriter: write, termErrer: errWrite, reader: reader}
}

// NewPiped builds a Context fed by the previous pipeline stage's output,
// buffering its own stdout for the next stage.
func NewPiped(stdin string, errWrite func(string)) *Context {
	return &Context{mode: Piped, stdin: splitLines(stdin), termErrer: errWrite}
}

// NewRedirected builds a Context whose stdin is optionally prefilled from
// a file's content and whose stdout is buffered for a later file write.
func NewRedirected(stdin string, hasStdin bool, errWrite func(string)) *Context {
	c := &Context{mode: Redirected, termErrer: errWrite}
	if hasStdin {
		c.stdin = splitLines(stdin)
	}
	return c
}

// splitLines splits buffered stdout on '\n', treating a single trailing
// newline as a line terminator rather than a separator: every Write call
// that ends a record does so with Writeln, which appends '\n' per line,
// so the content this feeds the next stage already has one trailing '\n'
// per "line", not a dangling empty record after it.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// IsPiped reports whether the Context is in Piped mode.
func (c *Context) IsPiped() bool { return c.mode == Piped }

// IsRedirected reports whether the Context is in Redirected mode.
func (c *Context) IsRedirected() bool { return c.mode == Redirected }

// HasStdin reports whether any input is available to read.
func (c *Context) HasStdin() bool { return len(c.stdin) > 0 }

// GetStdinLines returns the input split on '\n'.
func (c *Context) GetStdinLines() []string { return c.stdin }

// Write appends text to the stdout buffer in piped/redirected modes, or
// emits it directly to the terminal in Terminal mode.
func (c *Context) Write(text string) {
	if c.mode == Terminal {
		if c.termWriter != nil {
			c.termWriter(text)
		}
		return
	}
	c.stdoutBuf = append(c.stdoutBuf, text)
}

// Writeln is Write with a trailing newline.
func (c *Context) Writeln(text string) { c.Write(text + "\n") }

// Error always emits to the terminal, regardless of mode (spec.md §4.5).
func (c *Context) Error(text string) {
	if c.termErrer != nil {
		c.termErrer(text)
	}
}

// GetStdout flushes the buffer into a single string; records are not
// forced to end in '\n' by this call, matching the buffer's own writes.
func (c *Context) GetStdout() string {
	return strings.Join(c.stdoutBuf, "")
}

// Readline suspends for interactive input, available only in Terminal
// mode (spec.md §4.5).
func (c *Context) Readline(prompt string) (string, error) {
	if c.mode != Terminal || c.reader == nil {
		return "", fmt.Errorf("readline is not available in this context")
	}
	return c.reader(prompt)
}
