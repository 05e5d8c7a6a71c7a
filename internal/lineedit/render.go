package lineedit

import (
	"bufio"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Renderer draws a Buffer on the current terminal row. It only queues
// output; the caller flushes once per user action.
//
// The terminal cursor stays hidden while editing and the cursor cell is
// drawn in reverse video, so any cursor change needs a full Draw.
type Renderer struct {
	w      *bufio.Writer
	width  int
	cursor lipgloss.Style
	start  int // First rune shown by the last Draw
}

// NewRenderer returns a renderer drawing lines of at most width cells,
// plus one cell for the cursor past the end.
func NewRenderer(w *bufio.Writer, width int) *Renderer {
	return &Renderer{
		w:      w,
		width:  max(width, 1),
		cursor: lipgloss.NewStyle().Reverse(true),
	}
}

// Width returns the render width.
func (r *Renderer) Width() int { return r.width }

// SetWidth changes the render width. Widths below 1 are raised to 1.
func (r *Renderer) SetWidth(width int) { r.width = max(width, 1) }

// Draw redraws the whole buffer and leaves the terminal cursor on the
// logical cursor.
//
// When the text is wider than the render width, a window of it is shown
// that keeps the cursor cell visible. The window keeps its position across
// draws and scrolls only as far as needed to follow the cursor. The line is
// padded with blanks to width+1 cells so nothing is left over from a longer
// previous draw.
func (r *Renderer) Draw(b *Buffer) {
	text := b.Runes()
	cur := b.Cursor()
	r.start = r.window(text, cur)

	r.moveTo(b.Left())
	cells := 0
	cursorCol := b.Left()
	for i := r.start; i < len(text); i++ {
		w := runewidth.RuneWidth(text[i])
		if cells+w > r.width && i != cur {
			break
		}
		if i == cur {
			cursorCol = b.Left() + cells
			r.w.WriteString(r.cursor.Render(string(text[i])))
		} else {
			r.w.WriteRune(text[i])
		}
		cells += w
	}
	if cur == len(text) {
		cursorCol = b.Left() + cells
		r.w.WriteString(r.cursor.Render(" "))
		cells++
	}
	r.pad(cells)
	r.moveTo(cursorCol)
}

// window returns the index of the first rune to show so that the cursor
// cell fits in the render width.
func (r *Renderer) window(text []rune, cur int) int {
	curW := 1
	if cur < len(text) {
		curW = runewidth.RuneWidth(text[cur])
	}
	start := min(r.start, cur)
	for start < cur && cellWidth(text[start:cur])+curW > r.width {
		start++
	}
	// Show more on the left once the tail no longer fills the width.
	tail := cellWidth(text[start:]) + 1
	for start > 0 && tail+runewidth.RuneWidth(text[start-1]) <= r.width {
		start--
		tail += runewidth.RuneWidth(text[start])
	}
	return start
}

// Freeze prints text at the start of the buffer's line without a cursor
// cell. It is used once a line is submitted.
func (r *Renderer) Freeze(b *Buffer, text string) {
	r.moveTo(b.Left())
	r.w.WriteString(text)
	r.pad(runewidth.StringWidth(text))
}

// Newline moves to the start of the next row. In raw mode a bare "\n" does
// not return the carriage.
func (r *Renderer) Newline() {
	r.w.WriteString("\r\n")
}

func (r *Renderer) moveTo(col int) {
	r.w.WriteString(ansi.CursorHorizontalAbsolute(col + 1))
}

func (r *Renderer) pad(cells int) {
	if n := r.width + 1 - cells; n > 0 {
		r.w.WriteString(strings.Repeat(" ", n))
	}
}

func cellWidth(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += runewidth.RuneWidth(r)
	}
	return w
}
