// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package repl reads complete dj expressions from a terminal, one line at
// a time, continuing across lines until the parser accepts or rejects the
// accumulated text.
package repl

import (
	"fmt"
	"strings"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/expr"
)

// ParseFunc parses dj source. Syntax errors must be *diag.Error so they
// can be classified; any other error is treated as fatal.
type ParseFunc func(src string) (*expr.Program, error)

// Policy selects what part of a submitted line joins the expression.
type Policy int

const (
	// AppendAll appends the whole line.
	AppendAll Policy = iota
	// CutAtCursor appends the line up to the cursor. The rest starts the
	// next line.
	CutAtCursor
)

func (p Policy) String() string {
	if p == CutAtCursor {
		return "cut-at-cursor"
	}
	return "append-all"
}

// ParsePolicy parses a policy name as written in the config file.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "append-all", "appendall", "":
		return AppendAll, nil
	case "cut-at-cursor", "cutatcursor", "cut":
		return CutAtCursor, nil
	}
	return AppendAll, fmt.Errorf("unknown accumulation policy %q", s)
}

// State is the state of an Accumulator.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateComplete
	StateAborted
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateComplete:
		return "complete"
	case StateAborted:
		return "aborted"
	case StateFatal:
		return "fatal"
	}
	return "empty"
}

// Verdict is the outcome of submitting a line.
type Verdict struct {
	State State
	// Program is set when State is StateComplete.
	Program *expr.Program
	// Err is the parse error when State is StateAccumulating or StateFatal.
	Err error
}

// Accumulator joins submitted lines into one expression and asks the
// parser after every line whether it is complete. The text is always
// handed to the parser as is, and the parser's verdict is final.
type Accumulator struct {
	policy Policy
	parse  ParseFunc
	total  strings.Builder
	state  State
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator(policy Policy, parse ParseFunc) *Accumulator {
	return &Accumulator{policy: policy, parse: parse}
}

// Policy returns the accumulation policy.
func (a *Accumulator) Policy() Policy { return a.policy }

// State returns the current state.
func (a *Accumulator) State() State { return a.state }

// Total returns the text accumulated so far.
func (a *Accumulator) Total() string { return a.total.String() }

// Cut splits a line being submitted with the cursor at the given code
// point offset. submitted, with trailing whitespace trimmed, joins the
// expression; remainder starts the next line and is always empty under
// AppendAll.
func (a *Accumulator) Cut(text string, cursor int) (submitted, remainder string) {
	if a.policy == CutAtCursor {
		rs := []rune(text)
		cursor = min(max(cursor, 0), len(rs))
		text, remainder = string(rs[:cursor]), string(rs[cursor:])
	}
	return strings.TrimRight(text, " \t\r\n"), remainder
}

// Submit appends line, newline-joined to any text already accumulated,
// and parses the result.
//
// A complete expression or a fatal error clears the accumulated text. An
// incomplete one leaves it for the next line.
func (a *Accumulator) Submit(line string) Verdict {
	if a.total.Len() > 0 {
		a.total.WriteByte('\n')
	}
	a.total.WriteString(line)

	prog, err := a.parse(a.total.String())
	switch {
	case err == nil:
		a.reset(StateComplete)
		return Verdict{State: StateComplete, Program: prog}
	case diag.IsIncomplete(err):
		a.state = StateAccumulating
		return Verdict{State: StateAccumulating, Err: err}
	}
	a.reset(StateFatal)
	return Verdict{State: StateFatal, Err: err}
}

// Abort discards the accumulated text.
func (a *Accumulator) Abort() {
	a.reset(StateAborted)
}

func (a *Accumulator) reset(state State) {
	a.total.Reset()
	a.state = state
}
