package repl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrInterrupted is returned by TerminalReader when the user presses Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// LineReader is a source of command lines.
type LineReader interface {
	// ReadLine shows prompt (if the source displays prompts) and returns the
	// next line without its terminator.
	ReadLine(prompt string) (string, error)
}

// StreamReader reads newline-terminated lines from any io.Reader.
type StreamReader struct {
	r *bufio.Reader
	w io.Writer
}

// NewStreamReader returns a reader over in. Prompts are written to promptOut
// unless it is nil.
func NewStreamReader(in io.Reader, promptOut io.Writer) *StreamReader {
	return &StreamReader{r: bufio.NewReader(in), w: promptOut}
}

func (s *StreamReader) ReadLine(prompt string) (string, error) {
	if s.w != nil {
		fmt.Fprint(s.w, prompt)
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalReader edits lines on a raw-mode terminal and keeps a history
// navigable with the arrow keys.
type TerminalReader struct {
	fd    int
	state *term.State
	term  *term.Terminal
}

// NewTerminalReader puts in into raw mode. Output written through the
// returned reader is translated for the raw terminal. Close restores the
// previous terminal state.
func NewTerminalReader(in *os.File, out io.Writer) (*TerminalReader, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw terminal: %w", err)
	}
	rw := struct {
		io.Reader
		io.Writer
	}{interruptReader{in}, out}
	return &TerminalReader{fd: fd, state: state, term: term.NewTerminal(rw, "")}, nil
}

func (t *TerminalReader) ReadLine(prompt string) (string, error) {
	t.term.SetPrompt(prompt)
	return t.term.ReadLine()
}

func (t *TerminalReader) Write(p []byte) (int, error) {
	return t.term.Write(p)
}

func (t *TerminalReader) Close() error {
	return term.Restore(t.fd, t.state)
}

// interruptReader turns a raw Ctrl-C byte into ErrInterrupted.
type interruptReader struct {
	r io.Reader
}

func (i interruptReader) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	if bytes.IndexByte(p[:n], 0x03) >= 0 {
		return 0, ErrInterrupted
	}
	return n, err
}

// RawWriter translates "\n" to "\r\n" so output lines up while a terminal
// is in raw mode.
func RawWriter(w io.Writer) io.Writer {
	return rawWriter{w: w}
}

type rawWriter struct {
	w io.Writer
}

func (r rawWriter) Write(p []byte) (int, error) {
	if _, err := r.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
