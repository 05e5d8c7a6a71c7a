// Package terminal owns the raw-mode terminal: the device, the scoped raw
// session and the decoding of key events.
package terminal

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Device is the terminal the editor talks to.
type Device interface {
	io.Reader
	io.Writer
	// MakeRaw switches the device to raw mode.
	MakeRaw() error
	// Restore returns the device to the mode it had before MakeRaw.
	Restore() error
	// Size returns the width and height in cells.
	Size() (width, height int, err error)
}

// TTY is a Device backed by a pair of terminal files, normally stdin and
// stdout.
type TTY struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// NewTTY returns a TTY reading from in and writing to out.
func NewTTY(in, out *os.File) *TTY {
	return &TTY{in: in, out: out}
}

func (t *TTY) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t *TTY) Write(p []byte) (int, error) { return t.out.Write(p) }

// MakeRaw puts the input side into raw mode, remembering the previous
// state for Restore.
func (t *TTY) MakeRaw() error {
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

// Restore undoes MakeRaw. It does nothing if the device is not raw.
func (t *TTY) Restore() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(int(t.in.Fd()), state)
}

// Size returns the size of the output side.
func (t *TTY) Size() (int, int, error) {
	return term.GetSize(int(t.out.Fd()))
}

// IsTerminal reports whether f is a terminal, including Cygwin and MSYS
// pseudo terminals.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
