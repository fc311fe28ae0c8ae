// Package console provides the line readers the tape machine's INPUT
// state reads from.
package console

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// Reader reads lines from a stream, dropping the trailing "\n" or "\r\n".
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line. A final line without a terminator is
// returned as is; io.EOF is only reported when no text is left.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// Prompter reads lines from an interactive terminal with line editing.
type Prompter struct {
	state  *liner.State
	prompt string
}

// NewPrompter takes over the terminal until Close is called.
func NewPrompter(prompt string) *Prompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &Prompter{state: state, prompt: prompt}
}

// ReadLine prompts for one line and records it in the history.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.state.Prompt(p.prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	p.state.AppendHistory(line)
	return line, nil
}

// Close restores the terminal.
func (p *Prompter) Close() error {
	return p.state.Close()
}

// LineReader is what Stdin returns.
type LineReader interface {
	ReadLine() (string, error)
}

// Stdin returns a line reader for standard input: a Prompter when stdin
// is a terminal, a plain Reader otherwise. The returned func releases
// the terminal.
func Stdin(prompt string) (LineReader, func() error) {
	if IsTerminal(os.Stdin) {
		p := NewPrompter(prompt)
		return p, p.Close
	}
	return NewReader(os.Stdin), func() error { return nil }
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
