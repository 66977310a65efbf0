package progrock

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/ui/output"
	"go.trai.ch/lumos/internal/ui/style"
)

// Console prints vertex progress as linear, prefixed lines.
// Relayed stdout lines go to stdout; status, stderr and log lines go to stderr.
// It is safe for concurrent use.
type Console struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output
	now    func() time.Time

	mu sync.Mutex
}

// NewConsole creates a Console. Nil writers default to the process streams.
func NewConsole(stdout, stderr io.Writer) *Console {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Console{
		stdout: stdout,
		stderr: stderr,
		output: output.New(stderr),
		now:    time.Now,
	}
}

func (c *Console) start(name string) *span {
	s := &span{console: c, name: name, started: c.now()}
	s.stdout = &lineWriter{span: s, dst: c.stdout}
	s.stderr = &lineWriter{span: s, dst: c.stderr}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.stderr, "%s Starting...\n", c.prefixLocked(name))
	return s
}

func (c *Console) prefixLocked(name string) string {
	return c.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

// span is the console side of one vertex.
type span struct {
	console *Console
	name    string
	started time.Time
	stdout  *lineWriter
	stderr  *lineWriter
}

func (s *span) log(level domain.LogLevel, msg string) {
	c := s.console
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := c.output.String(level.String())
	switch level {
	case domain.LogLevelWarn:
		tag = tag.Foreground(termenv.ANSIYellow)
	case domain.LogLevelError:
		tag = tag.Foreground(termenv.ANSIRed)
	case domain.LogLevelDebug, domain.LogLevelInfo:
		tag = tag.Faint()
	}
	_, _ = fmt.Fprintf(c.stderr, "%s %s %s\n", c.prefixLocked(s.name), tag.String(), msg)
}

func (s *span) complete(err error) {
	c := s.console
	c.mu.Lock()
	defer c.mu.Unlock()

	s.stdout.flushLocked()
	s.stderr.flushLocked()

	elapsed := c.now().Sub(s.started).Round(time.Millisecond)
	prefix := c.prefixLocked(s.name)
	if err != nil {
		symbol := c.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(c.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, elapsed, err)
		return
	}
	symbol := c.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(c.stderr, "%s %s Completed in %v\n", prefix, symbol, elapsed)
}

func (s *span) cached() {
	c := s.console
	c.mu.Lock()
	defer c.mu.Unlock()

	s.stdout.flushLocked()
	s.stderr.flushLocked()

	symbol := c.output.String(style.Tilde).Faint().String()
	_, _ = fmt.Fprintf(c.stderr, "%s %s Cached\n", c.prefixLocked(s.name), symbol)
}

// lineWriter buffers one stream of a span and prints complete lines with the span prefix.
type lineWriter struct {
	span *span
	dst  io.Writer
	buf  bytes.Buffer
}

// Write implements io.Writer.
func (w *lineWriter) Write(p []byte) (int, error) {
	c := w.span.console
	c.mu.Lock()
	defer c.mu.Unlock()

	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := w.buf.Next(idx + 1)
		w.printLocked(line)
	}
	return len(p), nil
}

// flushLocked prints a trailing partial line. Must be called with the console lock held.
func (w *lineWriter) flushLocked() {
	if w.buf.Len() > 0 {
		w.printLocked(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *lineWriter) printLocked(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w.dst, "[%s] %s\n", w.span.name, line)
}
