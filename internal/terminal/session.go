package terminal

import (
	"bufio"
	"errors"

	"github.com/charmbracelet/x/ansi"
)

// Session is a scoped raw-mode acquisition of a Device. It owns the raw
// flag and the buffered output stream; nothing else may write to the
// device while it is active.
type Session struct {
	dev    Device
	out    *bufio.Writer
	prompt string
	active bool
}

// NewSession returns an inactive session on dev. The prompt is printed by
// every Enter.
func NewSession(dev Device, prompt string) *Session {
	return &Session{dev: dev, out: bufio.NewWriter(dev), prompt: prompt}
}

// Enter switches the device to raw mode, prints the prompt and hides the
// cursor.
func (s *Session) Enter() error {
	if s.active {
		return nil
	}
	if err := s.dev.MakeRaw(); err != nil {
		return err
	}
	s.active = true
	s.out.WriteString("\r")
	s.out.WriteString(s.prompt)
	s.out.WriteString(ansi.HideCursor)
	return s.out.Flush()
}

// Leave restores cooked mode, shows the cursor and ends the line. Calling
// it on an inactive session does nothing, so it is safe to defer alongside
// explicit calls. The output half is attempted even when restoring the
// mode fails.
func (s *Session) Leave() error {
	if !s.active {
		return nil
	}
	s.active = false
	restoreErr := s.dev.Restore()
	s.out.WriteString(ansi.ShowCursor)
	s.out.WriteString("\n")
	return errors.Join(restoreErr, s.out.Flush())
}

// Active reports whether the session is in raw mode.
func (s *Session) Active() bool { return s.active }

// Prompt returns the prompt printed by Enter.
func (s *Session) Prompt() string { return s.prompt }

// Writer returns the buffered output stream. Writes are queued until
// Flush.
func (s *Session) Writer() *bufio.Writer { return s.out }

// Flush sends queued output to the device.
func (s *Session) Flush() error { return s.out.Flush() }

// Width returns the live terminal width.
func (s *Session) Width() (int, error) {
	w, _, err := s.dev.Size()
	return w, err
}
