// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming Unicode-aware lexer for dj.
package scanner

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/token"
)

// Scanner tokenizes dj input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	pos    diag.Pos // Position of the next rune
	prev   diag.Pos // Position before the last read rune, for unread
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   diag.Pos // Position where this token started
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		pos:    diag.Pos{Line: 1, Col: 1},
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Line returns the current line number (1-based).
func (s *Scanner) Line() int {
	return s.pos.Line
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input. Lexical errors are returned
// as *diag.Error.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.skipSpaceAndComments(); err != nil {
		return nil, err
	}

	start := s.pos
	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch r {
	case token.RuneOpen:
		return &Item{Token: token.LPAREN, Value: "(", Pos: start}, nil
	case token.RuneClose:
		return &Item{Token: token.RPAREN, Value: ")", Pos: start}, nil
	case token.RuneQuote:
		return s.scanString(start)
	}

	s.buf.Reset()
	s.buf.WriteRune(r)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if unicode.IsSpace(r) || token.IsDelimiter(r) {
			s.unread()
			break
		}
		s.buf.WriteRune(r)
	}
	return classifyAtom(s.buf.String(), start)
}

// All scans the remaining input into a slice, stopping at EOF or the first
// error.
func (s *Scanner) All() ([]*Item, error) {
	var items []*Item
	for {
		item, err := s.Next()
		if err != nil {
			return items, err
		}
		if item.Token == token.EOF {
			return items, nil
		}
		items = append(items, item)
	}
}

func (s *Scanner) scanString(start diag.Pos) (*Item, error) {
	s.buf.Reset()
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil, diag.New(diag.UnclosedString, start, "")
		}
		if err != nil {
			return nil, err
		}
		switch r {
		case token.RuneQuote:
			return &Item{Token: token.STRING, Value: s.buf.String(), Pos: start}, nil
		case token.RuneEscape:
			escPos := s.prev
			e, err := s.read()
			if err == io.EOF {
				return nil, diag.New(diag.UnclosedString, start, "")
			}
			if err != nil {
				return nil, err
			}
			switch e {
			case 'n':
				s.buf.WriteByte('\n')
			case 't':
				s.buf.WriteByte('\t')
			case 'r':
				s.buf.WriteByte('\r')
			case '0':
				s.buf.WriteByte(0)
			case token.RuneQuote, token.RuneEscape:
				s.buf.WriteRune(e)
			default:
				return nil, diag.New(diag.InvalidEscape, escPos, string([]rune{token.RuneEscape, e}))
			}
		default:
			s.buf.WriteRune(r)
		}
	}
}

// classifyAtom turns a bare word into a number or a symbol.
func classifyAtom(text string, pos diag.Pos) (*Item, error) {
	if !looksNumeric(text) {
		return &Item{Token: token.SYMBOL, Value: text, Pos: pos}, nil
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &Item{Token: token.INTEGER, Value: text, Pos: pos}, nil
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return &Item{Token: token.DECIMAL, Value: text, Pos: pos}, nil
	}
	return nil, diag.New(diag.InvalidNumber, pos, text)
}

// looksNumeric reports whether a word starts like a number: a digit,
// optionally preceded by a sign.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	if text[0] == '-' || text[0] == '+' {
		text = text[1:]
	}
	return text != "" && text[0] >= '0' && text[0] <= '9'
}

func (s *Scanner) skipSpaceAndComments() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r == token.RuneComment {
			for r != '\n' {
				r, err = s.read()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
			}
			continue
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.prev = s.pos
	if r == '\n' {
		s.pos.Line++
		s.pos.Col = 1
	} else {
		s.pos.Col++
	}
	return r, nil
}

// unread steps back over the last rune. Only one level is supported.
func (s *Scanner) unread() {
	s.reader.UnreadRune()
	s.pos = s.prev
}
