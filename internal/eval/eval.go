package eval

import (
	"fmt"
	"io"
	"os"
	"strings"

	"nickandperla.net/dj/internal/expr"
	"nickandperla.net/dj/internal/parser"
)

// OutputWriter writes output (for print/println builtins).
type OutputWriter func(text string) error

// FileReader reads a source file (for the load builtin).
type FileReader func(path string) ([]byte, error)

// DefaultMaxDepth bounds nested calls so runaway recursion reports an error
// instead of exhausting the goroutine stack.
const DefaultMaxDepth = 10000

// Evaluator interprets dj programs.
type Evaluator struct {
	global       *Namespace
	outputWriter OutputWriter
	readFile     FileReader
	depth        int
	maxDepth     int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutputWriter sets the output writer for print builtins.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithFileReader sets how the load builtin reads files.
func WithFileReader(r FileReader) Option {
	return func(e *Evaluator) { e.readFile = r }
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		global:   NewNamespace(),
		readFile: os.ReadFile,
		maxDepth: DefaultMaxDepth,
		outputWriter: func(text string) error {
			fmt.Print(text)
			return nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Namespace returns the global namespace.
func (e *Evaluator) Namespace() *Namespace {
	return e.global
}

// Eval parses and evaluates a dj string, returning the value of the last
// expression.
func (e *Evaluator) Eval(input string) (expr.Expr, error) {
	prog, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}
	return e.Exec(prog)
}

// EvalReader parses and evaluates dj source from a reader.
func (e *Evaluator) EvalReader(r io.Reader) (expr.Expr, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, err
	}
	return e.Eval(sb.String())
}

// Exec evaluates a parsed program in the global namespace. An empty
// program evaluates to nil.
func (e *Evaluator) Exec(p *expr.Program) (expr.Expr, error) {
	var result expr.Expr = expr.Nil{}
	for _, x := range p.Exprs {
		v, err := e.eval(x, e.global)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) eval(x expr.Expr, env *Namespace) (expr.Expr, error) {
	switch v := x.(type) {
	case expr.Symbol:
		return e.lookup(string(v), env)
	case expr.List:
		return e.evalList(v, env)
	case nil:
		return expr.Nil{}, nil
	}
	return x, nil
}

func (e *Evaluator) lookup(name string, env *Namespace) (expr.Expr, error) {
	if v, ok := env.Get(name); ok {
		return v, nil
	}
	if fn := getBuiltin(name); fn != nil {
		return &Builtin{Name: name, Fn: fn}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
}

func (e *Evaluator) evalList(l expr.List, env *Namespace) (expr.Expr, error) {
	if len(l) == 0 {
		return expr.Nil{}, nil
	}
	if head, ok := l[0].(expr.Symbol); ok {
		if form := getSpecialForm(string(head)); form != nil {
			return form(e, l[1:], env)
		}
	}

	fn, err := e.eval(l[0], env)
	if err != nil {
		return nil, err
	}
	args := make([]expr.Expr, 0, len(l)-1)
	for _, a := range l[1:] {
		v, err := e.eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return e.apply(fn, args)
}

// apply calls a builtin or a lambda with already evaluated arguments.
func (e *Evaluator) apply(fn expr.Expr, args []expr.Expr) (expr.Expr, error) {
	if e.depth >= e.maxDepth {
		return nil, ErrRecursion
	}
	e.depth++
	defer func() { e.depth-- }()

	switch f := fn.(type) {
	case *Builtin:
		return f.Fn(e, args)
	case *Lambda:
		scope, err := f.bind(args)
		if err != nil {
			return nil, err
		}
		return e.evalBody(f.Body, scope)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotCallable, expr.Quote(fn))
}

// evalBody evaluates expressions in order and returns the last value.
func (e *Evaluator) evalBody(body []expr.Expr, env *Namespace) (expr.Expr, error) {
	var result expr.Expr = expr.Nil{}
	for _, x := range body {
		v, err := e.eval(x, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// write sends text to the output writer, if any.
func (e *Evaluator) write(text string) error {
	if e.outputWriter == nil {
		return nil
	}
	return e.outputWriter(text)
}
