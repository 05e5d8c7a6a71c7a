package eval

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"nickandperla.net/dj/internal/expr"
	"nickandperla.net/dj/internal/parser"
)

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case "+":
		return builtinAdd
	case "-":
		return builtinSub
	case "*":
		return builtinMul
	case "/":
		return builtinDiv
	case "%":
		return builtinRem
	case "^":
		return builtinPow
	case "=":
		return builtinEq
	case "!=":
		return builtinNe
	case "<", "<=", ">", ">=":
		return compareBuiltin(name)
	case "not":
		return builtinNot
	case "list":
		return builtinList
	case "len":
		return builtinLen
	case "str":
		return builtinStr
	case "type":
		return builtinType
	case "print":
		return builtinPrint
	case "println":
		return builtinPrintln
	case "exit":
		return builtinExit
	case "load":
		return builtinLoad
	}
	return nil
}

// BuiltinNames lists every builtin function name.
func BuiltinNames() []string {
	return []string{
		"+", "-", "*", "/", "%", "^",
		"=", "!=", "<", "<=", ">", ">=", "not",
		"list", "len", "str", "type",
		"print", "println", "exit", "load",
	}
}

// number returns a numeric argument as float64, and whether it was an integer.
func number(name string, x expr.Expr) (float64, bool, error) {
	switch v := x.(type) {
	case expr.Integer:
		return float64(v), true, nil
	case expr.Decimal:
		return float64(v), false, nil
	}
	return 0, false, fmt.Errorf("%w: %s expects numbers, got %s %s", ErrType, name, expr.TypeName(x), expr.Quote(x))
}

func allIntegers(args []expr.Expr) bool {
	for _, a := range args {
		if _, ok := a.(expr.Integer); !ok {
			return false
		}
	}
	return true
}

func checkNumbers(name string, args []expr.Expr) error {
	for _, a := range args {
		if _, _, err := number(name, a); err != nil {
			return err
		}
	}
	return nil
}

func builtinAdd(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if err := checkNumbers("+", args); err != nil {
		return nil, err
	}
	if allIntegers(args) {
		var sum expr.Integer
		for _, a := range args {
			sum += a.(expr.Integer)
		}
		return sum, nil
	}
	var sum float64
	for _, a := range args {
		f, _, _ := number("+", a)
		sum += f
	}
	return expr.Decimal(sum), nil
}

func builtinSub(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) == 0 {
		return nil, arityError("-", "at least 1", 0)
	}
	if err := checkNumbers("-", args); err != nil {
		return nil, err
	}
	if allIntegers(args) {
		acc := args[0].(expr.Integer)
		if len(args) == 1 {
			return -acc, nil
		}
		for _, a := range args[1:] {
			acc -= a.(expr.Integer)
		}
		return acc, nil
	}
	acc, _, _ := number("-", args[0])
	if len(args) == 1 {
		return expr.Decimal(-acc), nil
	}
	for _, a := range args[1:] {
		f, _, _ := number("-", a)
		acc -= f
	}
	return expr.Decimal(acc), nil
}

func builtinMul(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if err := checkNumbers("*", args); err != nil {
		return nil, err
	}
	if allIntegers(args) {
		product := expr.Integer(1)
		for _, a := range args {
			product *= a.(expr.Integer)
		}
		return product, nil
	}
	product := 1.0
	for _, a := range args {
		f, _, _ := number("*", a)
		product *= f
	}
	return expr.Decimal(product), nil
}

// builtinDiv divides left to right. Integer operands use truncating
// division.
func builtinDiv(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) < 2 {
		return nil, arityError("/", "at least 2", len(args))
	}
	if err := checkNumbers("/", args); err != nil {
		return nil, err
	}
	if allIntegers(args) {
		acc := args[0].(expr.Integer)
		for _, a := range args[1:] {
			d := a.(expr.Integer)
			if d == 0 {
				return nil, ErrDivideByZero
			}
			acc /= d
		}
		return acc, nil
	}
	acc, _, _ := number("/", args[0])
	for _, a := range args[1:] {
		d, _, _ := number("/", a)
		if d == 0 {
			return nil, ErrDivideByZero
		}
		acc /= d
	}
	return expr.Decimal(acc), nil
}

// builtinRem computes (% a b).
func builtinRem(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 2 {
		return nil, arityError("%", "2", len(args))
	}
	if err := checkNumbers("%", args); err != nil {
		return nil, err
	}
	if allIntegers(args) {
		b := args[1].(expr.Integer)
		if b == 0 {
			return nil, ErrDivideByZero
		}
		return args[0].(expr.Integer) % b, nil
	}
	a, _, _ := number("%", args[0])
	b, _, _ := number("%", args[1])
	if b == 0 {
		return nil, ErrDivideByZero
	}
	return expr.Decimal(math.Mod(a, b)), nil
}

// builtinPow computes (^ val pow). The result is always a decimal.
func builtinPow(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 2 {
		return nil, arityError("^", "2", len(args))
	}
	val, _, err := number("^", args[0])
	if err != nil {
		return nil, err
	}
	pow, _, err := number("^", args[1])
	if err != nil {
		return nil, err
	}
	return expr.Decimal(math.Pow(val, pow)), nil
}

// equal compares values structurally; integers and decimals compare by
// numeric value.
func equal(a, b expr.Expr) bool {
	fa, _, errA := number("=", a)
	fb, _, errB := number("=", b)
	if errA == nil && errB == nil {
		return fa == fb
	}
	switch av := a.(type) {
	case expr.List:
		bv, ok := b.(expr.List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case expr.Nil:
		_, ok := b.(expr.Nil)
		return ok
	case expr.Bool, expr.String, expr.Symbol:
		return a == b
	}
	return a == b
}

func builtinEq(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) < 2 {
		return nil, arityError("=", "at least 2", len(args))
	}
	for _, a := range args[1:] {
		if !equal(args[0], a) {
			return expr.Bool(false), nil
		}
	}
	return expr.Bool(true), nil
}

func builtinNe(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	v, err := builtinEq(e, args)
	if err != nil {
		return nil, err
	}
	return !v.(expr.Bool), nil
}

// compareBuiltin builds an ordering builtin over numbers or strings. With
// more than two arguments every adjacent pair must satisfy the ordering.
func compareBuiltin(op string) BuiltinFunc {
	holds := func(c int) bool {
		switch op {
		case "<":
			return c < 0
		case "<=":
			return c <= 0
		case ">":
			return c > 0
		}
		return c >= 0
	}
	return func(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
		if len(args) < 2 {
			return nil, arityError(op, "at least 2", len(args))
		}
		for i := 0; i+1 < len(args); i++ {
			c, err := compare(op, args[i], args[i+1])
			if err != nil {
				return nil, err
			}
			if !holds(c) {
				return expr.Bool(false), nil
			}
		}
		return expr.Bool(true), nil
	}
}

func compare(op string, a, b expr.Expr) (int, error) {
	if as, ok := a.(expr.String); ok {
		bs, ok := b.(expr.String)
		if !ok {
			return 0, fmt.Errorf("%w: %s cannot compare string with %s", ErrType, op, expr.TypeName(b))
		}
		return strings.Compare(string(as), string(bs)), nil
	}
	fa, _, err := number(op, a)
	if err != nil {
		return 0, err
	}
	fb, _, err := number(op, b)
	if err != nil {
		return 0, err
	}
	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	}
	return 0, nil
}

func builtinNot(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("not", "1", len(args))
	}
	return expr.Bool(!expr.Truthy(args[0])), nil
}

func builtinList(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	l := expr.List{}
	return append(l, args...), nil
}

func builtinLen(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("len", "1", len(args))
	}
	switch v := args[0].(type) {
	case expr.String:
		return expr.Integer(utf8.RuneCountInString(string(v))), nil
	case expr.List:
		return expr.Integer(len(v)), nil
	case expr.Nil:
		return expr.Integer(0), nil
	}
	return nil, fmt.Errorf("%w: len expects a string or list, got %s", ErrType, expr.TypeName(args[0]))
}

// builtinStr concatenates the display forms of its arguments.
func builtinStr(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return expr.String(sb.String()), nil
}

func builtinType(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("type", "1", len(args))
	}
	return expr.String(expr.TypeName(args[0])), nil
}

// builtinPrint writes its argument without a trailing newline:
//
//	(print "Hello")
//	(print 123)
func builtinPrint(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("print", "1", len(args))
	}
	if err := e.write(args[0].String()); err != nil {
		return nil, err
	}
	return expr.Nil{}, nil
}

// builtinPrintln writes its optional argument followed by a newline:
//
//	(println "Hello, World")
//	(println)
func builtinPrintln(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) > 1 {
		return nil, arityError("println", "0 or 1", len(args))
	}
	text := "\n"
	if len(args) == 1 {
		text = args[0].String() + "\n"
	}
	if err := e.write(text); err != nil {
		return nil, err
	}
	return expr.Nil{}, nil
}

// builtinExit requests program exit with an optional code:
//
//	(exit)
//	(exit 1)
func builtinExit(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	switch len(args) {
	case 0:
		return nil, &ExitError{Code: 0}
	case 1:
		code, ok := args[0].(expr.Integer)
		if !ok {
			return nil, fmt.Errorf("%w: exit expects an integer code, got %s", ErrType, expr.TypeName(args[0]))
		}
		return nil, &ExitError{Code: int(code)}
	}
	return nil, arityError("exit", "0 or 1", len(args))
}

// builtinLoad reads a file and evaluates it in the global namespace:
//
//	(load "sample.dj")
func builtinLoad(e *Evaluator, args []expr.Expr) (expr.Expr, error) {
	if len(args) != 1 {
		return nil, arityError("load", "1", len(args))
	}
	path, ok := args[0].(expr.String)
	if !ok {
		return nil, fmt.Errorf("%w: load expects a path string, got %s", ErrType, expr.TypeName(args[0]))
	}
	src, err := e.readFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return e.Exec(prog)
}
