package lineedit

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func render(width int, fn func(r *Renderer)) string {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	fn(NewRenderer(w, width))
	w.Flush()
	return out.String()
}

func TestDraw(t *testing.T) {
	tests := []struct {
		name  string
		width int
		buf   *Buffer
		want  string
	}{
		{"cursor at end", 10, bufferOf(2, "abc", 3), "abc" + strings.Repeat(" ", 8)},
		{"cursor inside", 10, bufferOf(2, "abc", 1), "abc" + strings.Repeat(" ", 8)},
		{"empty", 3, bufferOf(2, "", 0), strings.Repeat(" ", 4)},
		{"scrolled to cursor at end", 5, bufferOf(0, "abcdefgh", 8), "efgh  "},
		{"cursor at start of long text", 5, bufferOf(0, "abcdefgh", 0), "abcde "},
		{"cursor in window", 5, bufferOf(0, "abcdefgh", 6), "cdefg "},
		{"wide runes", 4, bufferOf(0, "世界世", 3), "世   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(tt.width, func(r *Renderer) { r.Draw(tt.buf) })
			if got := ansi.Strip(out); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !strings.HasPrefix(out, ansi.CursorHorizontalAbsolute(tt.buf.Left()+1)) {
				t.Errorf("expected draw to start at column %d, got %q", tt.buf.Left(), out)
			}
		})
	}
}

func TestDrawPlacesTerminalCursor(t *testing.T) {
	out := render(10, func(r *Renderer) { r.Draw(bufferOf(2, "abc", 1)) })
	if !strings.HasSuffix(out, ansi.CursorHorizontalAbsolute(2+1+1)) {
		t.Errorf("expected cursor moved to column 3, got %q", out)
	}

	out = render(5, func(r *Renderer) { r.Draw(bufferOf(0, "abcdefgh", 8)) })
	if !strings.HasSuffix(out, ansi.CursorHorizontalAbsolute(4+1)) {
		t.Errorf("expected cursor moved to column 4 of the window, got %q", out)
	}
}

func TestDrawWideCursorCell(t *testing.T) {
	cell := lipgloss.NewStyle().Reverse(true).Render("世")
	cha := ansi.CursorHorizontalAbsolute
	tests := []struct {
		name  string
		width int
		buf   *Buffer
		want  string
	}{
		{"at right edge", 4, bufferOf(0, "a世世", 2), cha(1) + "世" + cell + " " + cha(3)},
		{"only room for the cursor", 3, bufferOf(2, "a世世", 2), cha(3) + cell + "  " + cha(3)},
		{"wider than the line", 1, bufferOf(0, "世a", 0), cha(1) + cell + cha(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.width, func(r *Renderer) { r.Draw(tt.buf) }); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDrawKeepsWindow(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	r := NewRenderer(w, 5)
	b := bufferOf(0, "abcdefgh", 8)
	draw := func() string {
		out.Reset()
		r.Draw(b)
		w.Flush()
		return ansi.Strip(out.String())
	}

	steps := []struct {
		name string
		move func() Change
		want string
	}{
		{"end", func() Change { return NoChange }, "efgh  "},
		{"left stays in window", b.MoveLeft, "efgh  "},
		{"left again", b.MoveLeft, "efgh  "},
		{"home", b.Home, "abcde "},
		{"right stays in window", b.MoveRight, "abcde "},
		{"right again", b.MoveRight, "abcde "},
		{"end", b.End, "efgh  "},
		{"backspace fills from the left", b.DeleteBackward, "defg  "},
	}
	for _, s := range steps {
		s.move()
		if got := draw(); got != s.want {
			t.Errorf("%s: expected %q, got %q", s.name, s.want, got)
		}
	}
}

func TestFreeze(t *testing.T) {
	out := render(5, func(r *Renderer) { r.Freeze(bufferOf(2, "abc|def", 3), "abc") })
	if got := ansi.Strip(out); got != "abc   " {
		t.Errorf("expected %q, got %q", "abc   ", got)
	}

	out = render(3, func(r *Renderer) { r.Freeze(bufferOf(0, "", 0), "(+ 1 2 3)") })
	if got := ansi.Strip(out); got != "(+ 1 2 3)" {
		t.Errorf("freeze should print long text whole, got %q", got)
	}
}

func TestRendererWidth(t *testing.T) {
	r := NewRenderer(bufio.NewWriter(&bytes.Buffer{}), 0)
	if r.Width() != 1 {
		t.Errorf("expected width raised to 1, got %d", r.Width())
	}
	r.SetWidth(48)
	if r.Width() != 48 {
		t.Errorf("expected width 48, got %d", r.Width())
	}
}

func TestNewline(t *testing.T) {
	if out := render(5, (*Renderer).Newline); out != "\r\n" {
		t.Errorf("expected CRLF, got %q", out)
	}
}
