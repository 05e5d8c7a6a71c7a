package repl

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"nickandperla.net/dj/internal/expr"
	"nickandperla.net/dj/internal/lineedit"
	"nickandperla.net/dj/internal/terminal"
)

// InterruptPolicy says what Ctrl+C does.
type InterruptPolicy int

const (
	// InterruptExit ends the whole session with a shutdown request.
	InterruptExit InterruptPolicy = iota
	// InterruptAbort drops the current expression, like Esc.
	InterruptAbort
)

// ParseInterruptPolicy parses "exit" or "abort".
func ParseInterruptPolicy(s string) (InterruptPolicy, error) {
	switch s {
	case "exit", "":
		return InterruptExit, nil
	case "abort":
		return InterruptAbort, nil
	}
	return InterruptExit, fmt.Errorf("unknown interrupt policy %q", s)
}

// OutcomeKind tells how Read ended.
type OutcomeKind int

const (
	// Completed means a complete expression was read.
	Completed OutcomeKind = iota
	// Aborted means the user dropped the expression with Esc.
	Aborted
	// Shutdown means the user asked to end the session.
	Shutdown
)

func (k OutcomeKind) String() string {
	switch k {
	case Aborted:
		return "aborted"
	case Shutdown:
		return "shutdown"
	}
	return "completed"
}

// Outcome is the result of one Read.
type Outcome struct {
	Kind OutcomeKind
	// Program is the expression read when Kind is Completed, and an exit
	// request when Kind is Shutdown.
	Program *expr.Program
	// ExitCode is the requested exit code when Kind is Shutdown.
	ExitCode int
}

// Default render geometry.
const (
	DefaultMaxWidth = 50
	DefaultMargin   = 2
)

// Loop reads expressions from a raw terminal.
type Loop struct {
	session *terminal.Session
	events  terminal.EventSource
	parse   ParseFunc
	acc     *Accumulator
	history *lineedit.History

	maxWidth  int
	margin    int
	interrupt InterruptPolicy
	exitCode  int

	// Cut remainder carried to the next Read.
	remainder string

	errStyle lipgloss.Style
}

// Option configures a Loop.
type Option func(*Loop)

// WithPolicy sets the accumulation policy.
func WithPolicy(p Policy) Option {
	return func(l *Loop) { l.acc = NewAccumulator(p, l.parse) }
}

// WithHistory shares a history between loops.
func WithHistory(h *lineedit.History) Option {
	return func(l *Loop) { l.history = h }
}

// WithWidth sets the maximum render width and the margin subtracted from
// it.
func WithWidth(maxWidth, margin int) Option {
	return func(l *Loop) {
		l.maxWidth = maxWidth
		l.margin = margin
	}
}

// WithInterrupt sets what Ctrl+C does and, for InterruptExit, the exit
// code requested.
func WithInterrupt(p InterruptPolicy, exitCode int) Option {
	return func(l *Loop) {
		l.interrupt = p
		l.exitCode = exitCode
	}
}

// NewLoop returns a loop reading events from events and drawing on
// session.
func NewLoop(session *terminal.Session, events terminal.EventSource, parse ParseFunc, opts ...Option) *Loop {
	l := &Loop{
		session:  session,
		events:   events,
		parse:    parse,
		maxWidth: DefaultMaxWidth,
		margin:   DefaultMargin,
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	l.acc = NewAccumulator(AppendAll, parse)
	for _, opt := range opts {
		opt(l)
	}
	if l.history == nil {
		l.history = lineedit.NewHistory()
	}
	return l
}

// History returns the loop's history.
func (l *Loop) History() *lineedit.History { return l.history }

// Read reads one expression. It returns a Completed outcome with the
// parsed program, an Aborted outcome after Esc, or a Shutdown outcome
// after the interrupt chord or Ctrl+D on an empty line. A malformed
// expression or a terminal failure is returned as an error.
//
// Raw mode is entered on the way in and left exactly once on the way out,
// whatever the outcome.
//
// Read blocks on the next key press without a timeout; ctx is only
// checked before the terminal is touched.
func (l *Loop) Read(ctx context.Context) (out Outcome, err error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if err := l.session.Enter(); err != nil {
		l.session.Leave()
		return Outcome{}, err
	}
	defer func() {
		if lerr := l.session.Leave(); err == nil && lerr != nil {
			err = lerr
		}
	}()

	termWidth, err := l.session.Width()
	if err != nil {
		l.acc.Abort()
		return Outcome{}, err
	}
	width := min(l.maxWidth, termWidth) - l.margin

	buf := lineedit.NewBuffer(ansi.StringWidth(l.session.Prompt()))
	if l.remainder != "" {
		buf.SetCursor(l.remainder, 0)
		l.remainder = ""
	}
	r := lineedit.NewRenderer(l.session.Writer(), width)
	r.Draw(buf)
	if err := l.session.Flush(); err != nil {
		return Outcome{}, err
	}

	for {
		ev, err := l.events.ReadEvent()
		if err != nil {
			l.acc.Abort()
			return Outcome{}, err
		}
		k, ok := ev.(terminal.KeyEvent)
		if !ok || k.Kind != terminal.Press {
			continue
		}

		change := lineedit.NoChange
		switch {
		case k.IsCtrl('c'):
			if l.interrupt == InterruptAbort {
				return l.abort()
			}
			return l.shutdown(l.exitCode, true)
		case k.IsCtrl('d') && buf.Len() == 0 && l.acc.State() != StateAccumulating:
			return l.shutdown(0, false)
		case k.Code == terminal.KeyEscape && k.Mod == 0:
			return l.abort()
		case k.Code == terminal.KeyUp:
			change = l.load(buf, l.history.Previous)
		case k.Code == terminal.KeyDown:
			change = l.load(buf, l.history.Next)
		case k.IsCtrl('r'):
			change = l.load(buf, func() (string, bool) { return l.history.Search(buf.Value()) })
		case k.Code == terminal.KeyEnter:
			submitted, rest := l.acc.Cut(buf.Value(), buf.Cursor())
			l.history.Record(submitted)
			r.Freeze(buf, submitted)
			v := l.acc.Submit(submitted)
			switch v.State {
			case StateComplete:
				l.remainder = rest
				return Outcome{Kind: Completed, Program: v.Program}, nil
			case StateFatal:
				return Outcome{}, v.Err
			}
			r.Newline()
			buf.Reset(0)
			buf.SetCursor(rest, 0)
			change = lineedit.TextChanged
		default:
			change = edit(buf, k)
		}

		if change != lineedit.NoChange {
			r.Draw(buf)
			if err := l.session.Flush(); err != nil {
				l.acc.Abort()
				return Outcome{}, err
			}
		}
	}
}

// edit applies a plain editing key to buf.
func edit(buf *lineedit.Buffer, k terminal.KeyEvent) lineedit.Change {
	if k.Code == terminal.KeyRune {
		switch {
		case k.Mod == 0 || k.Mod == terminal.ModShift:
			return buf.Insert(k.Rune)
		case k.IsCtrl('a'):
			return buf.Home()
		case k.IsCtrl('e'):
			return buf.End()
		case k.IsCtrl('b'):
			return buf.MoveLeft()
		case k.IsCtrl('f'):
			return buf.MoveRight()
		case k.IsCtrl('d'):
			return buf.DeleteForward()
		case k.IsCtrl('h'):
			return buf.DeleteBackward()
		case k.IsCtrl('k'):
			return buf.KillToEnd()
		case k.IsCtrl('u'):
			return buf.KillToStart()
		}
		return lineedit.NoChange
	}
	switch k.Code {
	case terminal.KeyBackspace:
		return buf.DeleteBackward()
	case terminal.KeyDelete:
		return buf.DeleteForward()
	case terminal.KeyLeft:
		return buf.MoveLeft()
	case terminal.KeyRight:
		return buf.MoveRight()
	case terminal.KeyHome:
		return buf.Home()
	case terminal.KeyEnd:
		return buf.End()
	}
	return lineedit.NoChange
}

// load replaces the buffer with a history entry, if next finds one.
func (l *Loop) load(buf *lineedit.Buffer, next func() (string, bool)) lineedit.Change {
	s, ok := next()
	if !ok {
		return lineedit.NoChange
	}
	return buf.Set(s)
}

// abort drops the current expression and any cut remainder.
func (l *Loop) abort() (Outcome, error) {
	l.acc.Abort()
	l.remainder = ""
	if err := l.session.Leave(); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: Aborted}, nil
}

// shutdown leaves raw mode, optionally reports the interrupt, and returns
// a request to exit with code.
func (l *Loop) shutdown(code int, notice bool) (Outcome, error) {
	l.acc.Abort()
	l.remainder = ""
	if err := l.session.Leave(); err != nil {
		return Outcome{}, err
	}
	if notice {
		w := l.session.Writer()
		w.WriteString(l.errStyle.Render("error"))
		w.WriteString(": exit by CONTROL C\n")
		if err := l.session.Flush(); err != nil {
			return Outcome{}, err
		}
	}
	prog, err := l.parse(fmt.Sprintf("(exit %d)", code))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: Shutdown, Program: prog, ExitCode: code}, nil
}
