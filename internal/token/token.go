// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines dj token types and delimiter constants.
package token

// Token represents a dj token type.
type Token int

const (
	EOF Token = iota

	LPAREN // (
	RPAREN // )

	STRING  // "text"
	INTEGER // 42, -7
	DECIMAL // 1.5, -0.25
	SYMBOL  // define, +, foo-bar
)

// Delimiter runes.
const (
	RuneOpen    = '('
	RuneClose   = ')'
	RuneQuote   = '"'
	RuneEscape  = '\\'
	RuneComment = ';'
)

// IsDelimiter returns true if the rune ends a symbol or number.
func IsDelimiter(r rune) bool {
	switch r {
	case RuneOpen, RuneClose, RuneQuote, RuneComment:
		return true
	}
	return false
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case STRING:
		return "STRING"
	case INTEGER:
		return "INTEGER"
	case DECIMAL:
		return "DECIMAL"
	case SYMBOL:
		return "SYMBOL"
	}
	return "UNKNOWN"
}

// IsAtom returns true if the token is a self-contained value.
func (t Token) IsAtom() bool {
	switch t {
	case STRING, INTEGER, DECIMAL, SYMBOL:
		return true
	}
	return false
}
