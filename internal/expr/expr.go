// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines dj values. Source code is read into the same values
// it evaluates to: a list is both a call and a piece of data.
package expr

import (
	"strconv"
	"strings"
)

// Expr is the interface all value types implement.
type Expr interface {
	// String returns the display representation of the value.
	String() string
	// IsEmpty returns true if this is nil or an empty list.
	IsEmpty() bool
}

// Nil represents an absent value.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) IsEmpty() bool  { return true }

// Bool is true or false.
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) IsEmpty() bool  { return false }

// Integer is a 64-bit signed integer.
type Integer int64

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Integer) IsEmpty() bool  { return false }

// Decimal is a floating point number.
type Decimal float64

func (d Decimal) String() string {
	s := strconv.FormatFloat(float64(d), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
func (d Decimal) IsEmpty() bool { return false }

// String is literal text.
type String string

func (s String) String() string { return string(s) }
func (s String) IsEmpty() bool  { return false }

// Symbol is a name resolved in the environment.
type Symbol string

func (s Symbol) String() string { return string(s) }
func (s Symbol) IsEmpty() bool  { return false }

// List is an ordered sequence of values.
type List []Expr

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range l {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Quote(e))
	}
	sb.WriteByte(')')
	return sb.String()
}
func (l List) IsEmpty() bool { return len(l) == 0 }

// Program is a parsed unit: zero or more top-level expressions.
type Program struct {
	Exprs  []Expr
	Source string
}

func (p *Program) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = Quote(e)
	}
	return strings.Join(parts, " ")
}
func (p *Program) IsEmpty() bool { return len(p.Exprs) == 0 }

// Quote returns the source form of a value: strings are quoted and
// escaped, everything else uses its display form.
func Quote(e Expr) string {
	if s, ok := e.(String); ok {
		return strconv.Quote(string(s))
	}
	return e.String()
}

// Truthy reports whether a value counts as true in conditionals. Only nil
// and false are false.
func Truthy(e Expr) bool {
	switch v := e.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	}
	return true
}

// Typer is implemented by values defined outside this package that want
// to report their own type name.
type Typer interface {
	TypeName() string
}

// TypeName returns the dj type name of a value.
func TypeName(e Expr) string {
	switch e.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		return "bool"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case List:
		return "list"
	case *Program:
		return "program"
	}
	if t, ok := e.(Typer); ok {
		return t.TypeName()
	}
	return "unknown"
}
