package lineedit

import (
	"math/rand"
	"testing"
)

func bufferOf(left int, text string, cursor int) *Buffer {
	b := NewBuffer(left)
	b.SetCursor(text, cursor)
	return b
}

func TestBufferOps(t *testing.T) {
	tests := []struct {
		name   string
		before *Buffer
		op     func(*Buffer) Change
		want   string
		change Change
	}{
		{"insert at end", bufferOf(2, "ab", 2), func(b *Buffer) Change { return b.Insert('c') }, "abc|", TextChanged},
		{"insert in middle", bufferOf(2, "ac", 1), func(b *Buffer) Change { return b.Insert('b') }, "ab|c", TextChanged},
		{"insert at start", bufferOf(0, "bc", 0), func(b *Buffer) Change { return b.Insert('a') }, "a|bc", TextChanged},
		{"backspace", bufferOf(2, "abc", 2), (*Buffer).DeleteBackward, "a|c", TextChanged},
		{"backspace at start", bufferOf(2, "abc", 0), (*Buffer).DeleteBackward, "|abc", NoChange},
		{"delete", bufferOf(2, "abc", 1), (*Buffer).DeleteForward, "a|c", TextChanged},
		{"delete at end", bufferOf(2, "abc", 3), (*Buffer).DeleteForward, "abc|", NoChange},
		{"left", bufferOf(2, "abc", 2), (*Buffer).MoveLeft, "a|bc", CursorMoved},
		{"left clamped", bufferOf(2, "abc", 0), (*Buffer).MoveLeft, "|abc", NoChange},
		{"right", bufferOf(2, "abc", 2), (*Buffer).MoveRight, "abc|", CursorMoved},
		{"right clamped", bufferOf(2, "abc", 3), (*Buffer).MoveRight, "abc|", NoChange},
		{"home", bufferOf(2, "abc", 2), (*Buffer).Home, "|abc", CursorMoved},
		{"end", bufferOf(2, "abc", 1), (*Buffer).End, "abc|", CursorMoved},
		{"kill to end", bufferOf(2, "abc", 1), (*Buffer).KillToEnd, "a|", TextChanged},
		{"kill to end at end", bufferOf(2, "abc", 3), (*Buffer).KillToEnd, "abc|", NoChange},
		{"kill to start", bufferOf(2, "abc", 2), (*Buffer).KillToStart, "|c", TextChanged},
		{"kill to start at start", bufferOf(2, "abc", 0), (*Buffer).KillToStart, "|abc", NoChange},
		{"multibyte backspace", bufferOf(0, "héllo", 2), (*Buffer).DeleteBackward, "h|llo", TextChanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := tt.op(tt.before)
			if got := tt.before.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if change != tt.change {
				t.Errorf("expected %v, got %v", tt.change, change)
			}
		})
	}
}

func TestBufferSetAndReset(t *testing.T) {
	b := NewBuffer(2)
	b.Set("(+ 1 2)")
	if b.Cursor() != 7 || b.Column() != 9 {
		t.Errorf("Set should put the cursor at the end, got cursor %d column %d", b.Cursor(), b.Column())
	}

	b.SetCursor("foobar", 3)
	before, after := b.Split()
	if before != "foo" || after != "bar" {
		t.Errorf("Split() = %q, %q", before, after)
	}

	b.SetCursor("abc", 10)
	if b.Cursor() != 3 {
		t.Errorf("SetCursor should clamp, got %d", b.Cursor())
	}

	b.Reset(0)
	if b.Value() != "" || b.Cursor() != 0 || b.Left() != 0 {
		t.Errorf("Reset left %q cursor %d left %d", b.Value(), b.Cursor(), b.Left())
	}
}

var ops = []func(*Buffer) Change{
	func(b *Buffer) Change { return b.Insert('x') },
	func(b *Buffer) Change { return b.Insert('é') },
	(*Buffer).DeleteBackward,
	(*Buffer).DeleteForward,
	(*Buffer).MoveLeft,
	(*Buffer).MoveRight,
	(*Buffer).Home,
	(*Buffer).End,
	(*Buffer).KillToEnd,
	(*Buffer).KillToStart,
}

func TestCursorStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for run := 0; run < 200; run++ {
		left := rng.Intn(10)
		b := NewBuffer(left)
		for i := 0; i < 200; i++ {
			ops[rng.Intn(len(ops))](b)
			if b.Cursor() < 0 || b.Cursor() > b.Len() {
				t.Fatalf("cursor %d out of [0, %d] in %q", b.Cursor(), b.Len(), b)
			}
			if b.Column() < left || b.Column() > left+b.Len() {
				t.Fatalf("column %d out of [%d, %d]", b.Column(), left, left+b.Len())
			}
		}
	}
}

func TestInsertThenBackspaceRestores(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for run := 0; run < 500; run++ {
		b := NewBuffer(2)
		for i := rng.Intn(20); i > 0; i-- {
			ops[rng.Intn(len(ops))](b)
		}
		text, cursor := b.Value(), b.Cursor()

		b.Insert('λ')
		b.DeleteBackward()

		if b.Value() != text || b.Cursor() != cursor {
			t.Fatalf("expected (%q, %d), got (%q, %d)", text, cursor, b.Value(), b.Cursor())
		}
	}
}
