package eval

import (
	"fmt"

	"nickandperla.net/dj/internal/expr"
)

// specialForm receives its arguments unevaluated.
type specialForm func(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error)

// getSpecialForm returns the special form for the given name, or nil.
func getSpecialForm(name string) specialForm {
	switch name {
	case "quote":
		return formQuote
	case "define":
		return formDefine
	case "set":
		return formSet
	case "if":
		return formIf
	case "fn":
		return formFn
	case "do":
		return formDo
	case "let":
		return formLet
	case "and":
		return formAnd
	case "or":
		return formOr
	case "while":
		return formWhile
	}
	return nil
}

func formQuote(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("quote", "1", len(args))
	}
	return args[0], nil
}

// formDefine handles (define name value) and (define (name params...) body...).
func formDefine(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, arityError("define", "at least 1", 0)
	}
	switch target := args[0].(type) {
	case expr.Symbol:
		if len(args) > 2 {
			return nil, arityError("define", "1 or 2", len(args))
		}
		var value expr.Expr = expr.Nil{}
		if len(args) == 2 {
			v, err := e.eval(args[1], env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		if l, ok := value.(*Lambda); ok && l.Name == "" {
			l.Name = string(target)
		}
		env.Set(string(target), value)
		return value, nil
	case expr.List:
		if len(target) == 0 {
			return nil, fmt.Errorf("%w: define needs a function name", ErrBadForm)
		}
		name, ok := target[0].(expr.Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: define function name must be a symbol, got %s", ErrBadForm, expr.Quote(target[0]))
		}
		params, rest, err := parseParams("define", target[1:])
		if err != nil {
			return nil, err
		}
		fn := &Lambda{Name: string(name), Params: params, Rest: rest, Body: args[1:], Env: env}
		env.Set(string(name), fn)
		return fn, nil
	}
	return nil, fmt.Errorf("%w: cannot define %s", ErrBadForm, expr.Quote(args[0]))
}

func formSet(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) != 2 {
		return nil, arityError("set", "2", len(args))
	}
	name, ok := args[0].(expr.Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: set target must be a symbol, got %s", ErrBadForm, expr.Quote(args[0]))
	}
	value, err := e.eval(args[1], env)
	if err != nil {
		return nil, err
	}
	if !env.Update(string(name), value) {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	return value, nil
}

func formIf(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, arityError("if", "2 or 3", len(args))
	}
	cond, err := e.eval(args[0], env)
	if err != nil {
		return nil, err
	}
	if expr.Truthy(cond) {
		return e.eval(args[1], env)
	}
	if len(args) == 3 {
		return e.eval(args[2], env)
	}
	return expr.Nil{}, nil
}

func formFn(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, arityError("fn", "at least 1", 0)
	}
	params, rest, err := parseParams("fn", args[0])
	if err != nil {
		return nil, err
	}
	return &Lambda{Params: params, Rest: rest, Body: args[1:], Env: env}, nil
}

func formDo(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	return e.evalBody(args, env)
}

// formLet handles (let ((name value) ...) body...). Bindings are evaluated
// in order and may refer to earlier ones.
func formLet(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, arityError("let", "at least 1", 0)
	}
	bindings, ok := args[0].(expr.List)
	if !ok {
		return nil, fmt.Errorf("%w: let bindings must be a list, got %s", ErrBadForm, expr.Quote(args[0]))
	}
	scope := env.Child()
	for _, b := range bindings {
		pair, ok := b.(expr.List)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: let binding must be (name value), got %s", ErrBadForm, expr.Quote(b))
		}
		name, ok := pair[0].(expr.Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: let name must be a symbol, got %s", ErrBadForm, expr.Quote(pair[0]))
		}
		v, err := e.eval(pair[1], scope)
		if err != nil {
			return nil, err
		}
		scope.Set(string(name), v)
	}
	return e.evalBody(args[1:], scope)
}

func formAnd(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	var result expr.Expr = expr.Bool(true)
	for _, a := range args {
		v, err := e.eval(a, env)
		if err != nil {
			return nil, err
		}
		if !expr.Truthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func formOr(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	var result expr.Expr = expr.Bool(false)
	for _, a := range args {
		v, err := e.eval(a, env)
		if err != nil {
			return nil, err
		}
		if expr.Truthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func formWhile(e *Evaluator, args []expr.Expr, env *Namespace) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, arityError("while", "at least 1", 0)
	}
	for {
		cond, err := e.eval(args[0], env)
		if err != nil {
			return nil, err
		}
		if !expr.Truthy(cond) {
			return expr.Nil{}, nil
		}
		if _, err := e.evalBody(args[1:], env); err != nil {
			return nil, err
		}
	}
}
