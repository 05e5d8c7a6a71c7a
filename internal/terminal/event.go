package terminal

import (
	"fmt"
	"strings"
)

// Event is a terminal input event. It is either a KeyEvent or an
// UnknownEvent.
type Event interface {
	isEvent()
}

// Code identifies a key. KeyRune means the key is the printable rune in
// KeyEvent.Rune.
type Code int

const (
	KeyRune Code = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
)

var codeNames = map[Code]string{
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEscape:    "Esc",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
}

// Mod is a set of key modifiers.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Kind distinguishes key presses from auto-repeats and releases. Terminals
// that do not report releases only ever produce Press.
type Kind uint8

const (
	Press Kind = iota
	Repeat
	Release
)

// KeyEvent is a single key action.
type KeyEvent struct {
	Code Code
	Rune rune
	Mod  Mod
	Kind Kind
}

func (KeyEvent) isEvent() {}

// Char returns the press of a printable rune.
func Char(r rune) KeyEvent { return KeyEvent{Code: KeyRune, Rune: r} }

// Ctrl returns the press of Ctrl and a letter, e.g. Ctrl('c').
func Ctrl(r rune) KeyEvent { return KeyEvent{Code: KeyRune, Rune: r, Mod: ModCtrl} }

// Key returns the unmodified press of a named key.
func Key(c Code) KeyEvent { return KeyEvent{Code: c} }

// IsCtrl reports whether k is Ctrl plus the rune r and no other modifier.
func (k KeyEvent) IsCtrl(r rune) bool {
	return k.Code == KeyRune && k.Mod == ModCtrl && k.Rune == r
}

func (k KeyEvent) String() string {
	var sb strings.Builder
	if k.Mod&ModCtrl != 0 {
		sb.WriteString("Ctrl-")
	}
	if k.Mod&ModAlt != 0 {
		sb.WriteString("Alt-")
	}
	if k.Mod&ModShift != 0 {
		sb.WriteString("Shift-")
	}
	if k.Code == KeyRune {
		sb.WriteRune(k.Rune)
	} else if name, ok := codeNames[k.Code]; ok {
		sb.WriteString(name)
	} else {
		fmt.Fprintf(&sb, "(bad key %d)", int(k.Code))
	}
	switch k.Kind {
	case Repeat:
		sb.WriteString(" (repeat)")
	case Release:
		sb.WriteString(" (release)")
	}
	return sb.String()
}

// UnknownEvent carries an escape sequence the reader could not decode.
type UnknownEvent struct {
	Seq string
}

func (UnknownEvent) isEvent() {}

// EventSource produces terminal events one at a time, blocking until the
// next one is available.
type EventSource interface {
	ReadEvent() (Event, error)
}
