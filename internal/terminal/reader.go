package terminal

import (
	"bufio"
	"io"
	"strings"
)

// Reader decodes key events from a byte stream, normally a tty in raw
// mode.
//
// Terminals write a whole escape sequence in one go, so a sequence is
// taken to end when the bytes read so far in the current chunk run out.
// In particular an ESC byte with nothing buffered after it is a lone
// Escape key rather than the start of a sequence.
//
// The same rule splits a sequence that straddles the end of the read
// buffer, which only happens when more than 256 bytes arrive at once, as
// in a large paste. The tail of such a sequence decodes as plain runes.
type Reader struct {
	rd *bufio.Reader
}

// NewReader returns a Reader decoding events from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{rd: bufio.NewReaderSize(r, 256)}
}

// Signals the end of the current sequence.
const runeEndOfSeq rune = -1

// ReadEvent blocks until one event has been decoded.
func (r *Reader) ReadEvent() (Event, error) {
	c, _, err := r.rd.ReadRune()
	if err != nil {
		return nil, err
	}
	if c != 0x1b {
		return ctrlModify(c), nil
	}

	var seq strings.Builder
	seq.WriteRune(c)
	c2 := r.readMore(&seq)
	// rxvt and derivatives prepend another ESC to signal Alt.
	alt := false
	if c2 == 0x1b {
		alt = true
		c2 = r.readMore(&seq)
	}
	switch c2 {
	case runeEndOfSeq:
		if alt {
			return KeyEvent{Code: KeyEscape, Mod: ModAlt}, nil
		}
		return Key(KeyEscape), nil
	case '[':
		return r.readCSI(&seq, alt), nil
	case 'O':
		c3 := r.readMore(&seq)
		if c3 == runeEndOfSeq {
			return KeyEvent{Code: KeyRune, Rune: 'O', Mod: ModAlt}, nil
		}
		code, ok := ss3Keys[c3]
		if !ok {
			return UnknownEvent{Seq: seq.String()}, nil
		}
		k := Key(code)
		if alt {
			k.Mod |= ModAlt
		}
		return k, nil
	}
	k := ctrlModify(c2)
	k.Mod |= ModAlt
	return k, nil
}

// readMore reads the next rune of the current chunk, or returns
// runeEndOfSeq if the chunk is exhausted.
func (r *Reader) readMore(seq *strings.Builder) rune {
	if r.rd.Buffered() == 0 {
		return runeEndOfSeq
	}
	c, _, err := r.rd.ReadRune()
	if err != nil {
		return runeEndOfSeq
	}
	seq.WriteRune(c)
	return c
}

// readCSI decodes the rest of a sequence starting with ESC [. Parameters
// are separated by ';' and may carry ':'-separated sub-parameters, as in
// the kitty keyboard protocol's \e[99;5:3u (release of Ctrl-c).
func (r *Reader) readCSI(seq *strings.Builder, alt bool) Event {
	c := r.readMore(seq)
	if c == runeEndOfSeq {
		return KeyEvent{Code: KeyRune, Rune: '[', Mod: ModAlt}
	}

	params := [][]int{nil}
CSISeq:
	for {
		last := len(params) - 1
		switch {
		case '0' <= c && c <= '9':
			p := params[last]
			if len(p) == 0 {
				p = append(p, 0)
			}
			p[len(p)-1] = p[len(p)-1]*10 + int(c-'0')
			params[last] = p
		case c == ';':
			params = append(params, nil)
		case c == ':':
			if len(params[last]) == 0 {
				params[last] = append(params[last], 0)
			}
			params[last] = append(params[last], 0)
		case c == runeEndOfSeq:
			return UnknownEvent{Seq: seq.String()}
		default:
			break CSISeq
		}
		c = r.readMore(seq)
	}
	if len(params) == 1 && len(params[0]) == 0 {
		params = nil
	}

	k, ok := parseCSI(params, c)
	if !ok {
		return UnknownEvent{Seq: seq.String()}
	}
	if alt {
		k.Mod |= ModAlt
	}
	return k
}

func parseCSI(params [][]int, last rune) (KeyEvent, bool) {
	first := func() int {
		if len(params) == 0 || len(params[0]) == 0 {
			return 0
		}
		return params[0][0]
	}
	modifiers := func(k KeyEvent) KeyEvent {
		if len(params) < 2 {
			return k
		}
		return xtermModify(k, params[1])
	}

	if code, ok := csiSeqByLast[last]; ok {
		// \e[A is Up, \e[1;5A is Ctrl-Up.
		return modifiers(Key(code)), true
	}
	switch last {
	case 'Z':
		return KeyEvent{Code: KeyTab, Mod: ModShift}, true
	case '~':
		// \e[3~ is Delete, \e[3;5~ is Ctrl-Delete.
		code, ok := csiSeqTilde[first()]
		if !ok {
			return KeyEvent{}, false
		}
		return modifiers(Key(code)), true
	case 'u':
		// kitty keyboard protocol: \e[codepoint;modifiers:event u.
		cp := first()
		if cp == 0 {
			return KeyEvent{}, false
		}
		return modifiers(kittyKey(rune(cp))), true
	}
	return KeyEvent{}, false
}

func kittyKey(cp rune) KeyEvent {
	switch cp {
	case 13:
		return Key(KeyEnter)
	case 9:
		return Key(KeyTab)
	case 127:
		return Key(KeyBackspace)
	case 27:
		return Key(KeyEscape)
	}
	return Char(cp)
}

// xtermModify applies an xterm modifier parameter: 1 plus a bitmask of
// Shift (1), Alt (2), Ctrl (4) and Meta (8). An optional sub-parameter
// carries the event kind.
func xtermModify(k KeyEvent, p []int) KeyEvent {
	if len(p) > 0 && p[0] > 1 {
		m := p[0] - 1
		if m&1 != 0 {
			k.Mod |= ModShift
		}
		if m&(2|8) != 0 {
			k.Mod |= ModAlt
		}
		if m&4 != 0 {
			k.Mod |= ModCtrl
		}
	}
	if len(p) > 1 {
		switch p[1] {
		case 2:
			k.Kind = Repeat
		case 3:
			k.Kind = Release
		}
	}
	return k
}

// ctrlModify maps a single rune to the key it stands for, treating C0
// control characters as Ctrl chords.
func ctrlModify(c rune) KeyEvent {
	switch c {
	case '\r', '\n':
		return Key(KeyEnter)
	case '\t':
		return Key(KeyTab)
	case 0x7f, 0x08:
		return Key(KeyBackspace)
	case 0x1b:
		return Key(KeyEscape)
	case 0x00:
		return Ctrl(' ')
	}
	switch {
	case 0x01 <= c && c <= 0x1a:
		return Ctrl('a' + c - 1)
	case 0x1c <= c && c <= 0x1f:
		return Ctrl(c + 0x40)
	}
	return Char(c)
}

// SS3 sequences: \eO followed by exactly one character.
var ss3Keys = map[rune]Code{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd,
}

// CSI sequences identified by their last rune.
var csiSeqByLast = map[rune]Code{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd,
}

// CSI sequences ending with '~', identified by their first parameter.
var csiSeqTilde = map[int]Code{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd,
	5: KeyPageUp, 6: KeyPageDown, 7: KeyHome, 8: KeyEnd,
}
