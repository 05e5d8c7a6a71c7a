package eval

import (
	"fmt"
	"strings"

	"nickandperla.net/dj/internal/expr"
)

// BuiltinFunc is the signature for builtin functions. Arguments are
// already evaluated.
type BuiltinFunc func(e *Evaluator, args []expr.Expr) (expr.Expr, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) String() string   { return "<builtin " + b.Name + ">" }
func (b *Builtin) IsEmpty() bool    { return false }
func (b *Builtin) TypeName() string { return "builtin" }

// restMarker separates fixed parameters from the rest parameter:
// (fn (a & more) ...).
const restMarker = "&"

// Lambda is a user-defined function closing over its defining scope.
type Lambda struct {
	Name   string
	Params []string
	Rest   string // Name bound to extra arguments as a list, if non-empty
	Body   []expr.Expr
	Env    *Namespace
}

func (l *Lambda) String() string {
	name := l.Name
	if name == "" {
		name = "anonymous"
	}
	params := strings.Join(l.Params, " ")
	if l.Rest != "" {
		params = strings.TrimSpace(params + " " + restMarker + " " + l.Rest)
	}
	return fmt.Sprintf("<fn %s (%s)>", name, params)
}
func (l *Lambda) IsEmpty() bool    { return false }
func (l *Lambda) TypeName() string { return "fn" }

// bind creates the call scope for a lambda invocation.
func (l *Lambda) bind(args []expr.Expr) (*Namespace, error) {
	if len(args) < len(l.Params) || (l.Rest == "" && len(args) > len(l.Params)) {
		want := fmt.Sprintf("%d", len(l.Params))
		if l.Rest != "" {
			want = "at least " + want
		}
		return nil, arityError(l.String(), want, len(args))
	}
	scope := l.Env.Child()
	for i, p := range l.Params {
		scope.Set(p, args[i])
	}
	if l.Rest != "" {
		rest := expr.List{}
		rest = append(rest, args[len(l.Params):]...)
		scope.Set(l.Rest, rest)
	}
	return scope, nil
}

// parseParams reads a parameter list such as (a b & rest).
func parseParams(form string, x expr.Expr) ([]string, string, error) {
	list, ok := x.(expr.List)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s parameters must be a list, got %s", ErrBadForm, form, expr.Quote(x))
	}
	var params []string
	rest := ""
	for i := 0; i < len(list); i++ {
		sym, ok := list[i].(expr.Symbol)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s parameter must be a symbol, got %s", ErrBadForm, form, expr.Quote(list[i]))
		}
		if string(sym) == restMarker {
			if i != len(list)-2 {
				return nil, "", fmt.Errorf("%w: %s expects exactly one name after %s", ErrBadForm, form, restMarker)
			}
			r, ok := list[i+1].(expr.Symbol)
			if !ok {
				return nil, "", fmt.Errorf("%w: %s rest parameter must be a symbol", ErrBadForm, form)
			}
			rest = string(r)
			break
		}
		params = append(params, string(sym))
	}
	return params, rest, nil
}
