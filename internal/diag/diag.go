// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package diag defines classified syntax errors shared by the scanner and
// the parser.
//
// Every Kind is either incomplete (the source is a valid prefix and more
// input may complete it) or fatal (no continuation can make it valid).
// The REPL relies on this split to decide between prompting for a
// continuation line and reporting an error.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies a syntax error.
type Kind int

const (
	// UnclosedString is a string literal with no closing quote.
	UnclosedString Kind = iota + 1
	// UnclosedGroup is an opening paren with no matching closer.
	UnclosedGroup
	// UnexpectedCloser is a closing paren with no matching opener.
	UnexpectedCloser
	// InvalidEscape is an unknown backslash escape inside a string.
	InvalidEscape
	// InvalidNumber is a token that starts like a number but is not one.
	InvalidNumber
)

// Incomplete reports whether the error only means more input is needed.
func (k Kind) Incomplete() bool {
	switch k {
	case UnclosedString, UnclosedGroup:
		return true
	case UnexpectedCloser, InvalidEscape, InvalidNumber:
		return false
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case UnclosedString:
		return "unclosed string"
	case UnclosedGroup:
		return "unclosed group"
	case UnexpectedCloser:
		return "unexpected closer"
	case InvalidEscape:
		return "invalid escape"
	case InvalidNumber:
		return "invalid number"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error is a classified syntax error.
type Error struct {
	Kind Kind
	Pos  Pos
	// Text is the offending source fragment, if any.
	Text string
}

func (e *Error) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Kind)
	}
	return fmt.Sprintf("syntax error at %s: %s %q", e.Pos, e.Kind, e.Text)
}

// Incomplete reports whether the error only means more input is needed.
func (e *Error) Incomplete() bool {
	return e.Kind.Incomplete()
}

// New creates an Error.
func New(kind Kind, pos Pos, text string) *Error {
	return &Error{Kind: kind, Pos: pos, Text: text}
}

// IsIncomplete reports whether err, or any error it wraps, is a syntax
// error of an incomplete kind.
func IsIncomplete(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Incomplete()
	}
	return false
}
