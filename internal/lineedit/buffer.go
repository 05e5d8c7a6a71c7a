// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package lineedit implements editing of a single line of input: the text
// buffer, its rendering on a raw terminal and the history of submitted
// lines.
//
// Editing works on code points. A glyph made of several code points takes
// several cursor steps and may be drawn with the cursor inside it.
package lineedit

import "strings"

// Change tells the caller what an edit did to the buffer, and so whether
// it needs redrawing.
type Change int

const (
	NoChange Change = iota
	CursorMoved
	TextChanged
)

func (c Change) String() string {
	switch c {
	case CursorMoved:
		return "cursor moved"
	case TextChanged:
		return "text changed"
	}
	return "no change"
}

// Buffer is one line of editable text with a cursor.
//
// The cursor is a code point offset into the text and always satisfies
// 0 <= cursor <= len(text); moves past either end clamp. The text starts
// at terminal column left, so the cursor's absolute column lies in
// [left, left+len(text)].
type Buffer struct {
	text   []rune
	cursor int
	left   int
}

// NewBuffer returns an empty buffer whose text starts at column left.
func NewBuffer(left int) *Buffer {
	return &Buffer{left: max(left, 0)}
}

// Insert inserts r at the cursor and advances the cursor past it.
func (b *Buffer) Insert(r rune) Change {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
	return TextChanged
}

// DeleteBackward removes the code point before the cursor.
func (b *Buffer) DeleteBackward() Change {
	if b.cursor == 0 {
		return NoChange
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return TextChanged
}

// DeleteForward removes the code point under the cursor.
func (b *Buffer) DeleteForward() Change {
	if b.cursor == len(b.text) {
		return NoChange
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return TextChanged
}

// MoveLeft moves the cursor one code point left.
func (b *Buffer) MoveLeft() Change {
	return b.moveTo(b.cursor - 1)
}

// MoveRight moves the cursor one code point right.
func (b *Buffer) MoveRight() Change {
	return b.moveTo(b.cursor + 1)
}

// Home moves the cursor to the start of the text.
func (b *Buffer) Home() Change {
	return b.moveTo(0)
}

// End moves the cursor to the end of the text.
func (b *Buffer) End() Change {
	return b.moveTo(len(b.text))
}

func (b *Buffer) moveTo(pos int) Change {
	pos = min(max(pos, 0), len(b.text))
	if pos == b.cursor {
		return NoChange
	}
	b.cursor = pos
	return CursorMoved
}

// KillToEnd deletes from the cursor to the end of the text.
func (b *Buffer) KillToEnd() Change {
	if b.cursor == len(b.text) {
		return NoChange
	}
	b.text = b.text[:b.cursor]
	return TextChanged
}

// KillToStart deletes from the start of the text to the cursor.
func (b *Buffer) KillToStart() Change {
	if b.cursor == 0 {
		return NoChange
	}
	b.text = append(b.text[:0], b.text[b.cursor:]...)
	b.cursor = 0
	return TextChanged
}

// Set replaces the text and puts the cursor at its end.
func (b *Buffer) Set(text string) Change {
	return b.SetCursor(text, len([]rune(text)))
}

// SetCursor replaces the text and puts the cursor at pos, clamped.
func (b *Buffer) SetCursor(text string, pos int) Change {
	b.text = []rune(text)
	b.cursor = min(max(pos, 0), len(b.text))
	return TextChanged
}

// Reset clears the text and moves the start of the line to column left.
func (b *Buffer) Reset(left int) {
	b.text = b.text[:0]
	b.cursor = 0
	b.left = max(left, 0)
}

// Value returns the text.
func (b *Buffer) Value() string { return string(b.text) }

// Runes returns the text as code points. The slice must not be modified.
func (b *Buffer) Runes() []rune { return b.text }

// Len returns the length of the text in code points.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the logical cursor, an offset into the text.
func (b *Buffer) Cursor() int { return b.cursor }

// Left returns the column where the text starts.
func (b *Buffer) Left() int { return b.left }

// Column returns the absolute column of the cursor, counting one column
// per code point.
func (b *Buffer) Column() int { return b.left + b.cursor }

// Split returns the text before and after the cursor.
func (b *Buffer) Split() (before, after string) {
	return string(b.text[:b.cursor]), string(b.text[b.cursor:])
}

func (b *Buffer) String() string {
	before, after := b.Split()
	var sb strings.Builder
	sb.WriteString(before)
	sb.WriteRune('|')
	sb.WriteString(after)
	return sb.String()
}
