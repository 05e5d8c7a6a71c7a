// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser reads dj source into values.
package parser

import (
	"io"
	"strconv"
	"strings"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/expr"
	"nickandperla.net/dj/internal/scanner"
	"nickandperla.net/dj/internal/token"
)

// Parser builds a program from a token stream.
type Parser struct {
	s *scanner.Scanner
}

// New creates a Parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{s: scanner.New(r)}
}

// Parse parses a complete source text. Syntax errors are returned as
// *diag.Error; use diag.IsIncomplete to tell a truncated program from an
// invalid one.
func Parse(src string) (*expr.Program, error) {
	p := New(strings.NewReader(src))
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	prog.Source = src
	return prog, nil
}

// ParseProgram parses expressions until EOF.
func (p *Parser) ParseProgram() (*expr.Program, error) {
	prog := &expr.Program{}
	for {
		item, err := p.s.Next()
		if err != nil {
			return nil, err
		}
		switch item.Token {
		case token.EOF:
			return prog, nil
		case token.RPAREN:
			return nil, diag.New(diag.UnexpectedCloser, item.Pos, item.Value)
		}
		e, err := p.parseFrom(item)
		if err != nil {
			return nil, err
		}
		prog.Exprs = append(prog.Exprs, e)
	}
}

// parseFrom parses one expression whose first token has been read.
func (p *Parser) parseFrom(item *scanner.Item) (expr.Expr, error) {
	if item.Token == token.LPAREN {
		return p.parseList(item.Pos)
	}
	return atom(item)
}

func (p *Parser) parseList(open diag.Pos) (expr.Expr, error) {
	list := expr.List{}
	for {
		item, err := p.s.Next()
		if err != nil {
			return nil, err
		}
		switch item.Token {
		case token.EOF:
			return nil, diag.New(diag.UnclosedGroup, open, "")
		case token.RPAREN:
			return list, nil
		}
		e, err := p.parseFrom(item)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
}

func atom(item *scanner.Item) (expr.Expr, error) {
	switch item.Token {
	case token.STRING:
		return expr.String(item.Value), nil
	case token.INTEGER:
		n, err := strconv.ParseInt(item.Value, 10, 64)
		if err != nil {
			return nil, diag.New(diag.InvalidNumber, item.Pos, item.Value)
		}
		return expr.Integer(n), nil
	case token.DECIMAL:
		f, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			return nil, diag.New(diag.InvalidNumber, item.Pos, item.Value)
		}
		return expr.Decimal(f), nil
	}
	switch item.Value {
	case "nil":
		return expr.Nil{}, nil
	case "true":
		return expr.Bool(true), nil
	case "false":
		return expr.Bool(false), nil
	}
	return expr.Symbol(item.Value), nil
}
