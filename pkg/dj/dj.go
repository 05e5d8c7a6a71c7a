package dj

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/eval"
	"nickandperla.net/dj/internal/expr"
	"nickandperla.net/dj/internal/parser"
	"nickandperla.net/dj/internal/store"
)

// Value is a dj value.
type Value = expr.Expr

// Program is a parsed dj source text.
type Program = expr.Program

// SyntaxError is a classified parse error.
type SyntaxError = diag.Error

// ExitError is returned when a program calls (exit N).
type ExitError = eval.ExitError

// Runtime is the dj interpreter runtime.
type Runtime struct {
	evaluator    *eval.Evaluator
	store        store.Store
	logger       *log.Logger
	outputWriter eval.OutputWriter
	fileReader   eval.FileReader
	maxDepth     int
	prelude      string // Custom prelude source (if empty, uses DefaultPrelude)
	noStdlib     bool   // If true, skip loading prelude
}

// New creates a new dj runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(r)
	}

	// Build evaluator options
	evalOpts := []eval.Option{}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	if r.fileReader != nil {
		evalOpts = append(evalOpts, eval.WithFileReader(r.fileReader))
	}
	if r.maxDepth > 0 {
		evalOpts = append(evalOpts, eval.WithMaxDepth(r.maxDepth))
	}
	r.evaluator = eval.New(evalOpts...)

	// Load prelude unless disabled
	if !r.noStdlib {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}
		if _, err := r.evaluator.Eval(prelude); err != nil {
			r.logger.Warn("prelude failed to load", "err", err)
		} else {
			r.logger.Debug("prelude loaded", "bytes", len(prelude))
		}
	}

	return r
}

// Parse parses dj source without evaluating it. Syntax errors are
// *SyntaxError.
func (r *Runtime) Parse(src string) (*Program, error) {
	return parser.Parse(src)
}

// Exec evaluates a parsed program in the global namespace.
func (r *Runtime) Exec(p *Program) (Value, error) {
	return r.evaluator.Exec(p)
}

// Eval parses and evaluates a dj string and returns the value of its last
// expression.
func (r *Runtime) Eval(input string) (Value, error) {
	return r.evaluator.Eval(input)
}

// EvalReader evaluates dj source from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (Value, error) {
	return r.evaluator.EvalReader(reader)
}

// EvalFile evaluates a dj file.
func (r *Runtime) EvalFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r.logger.Debug("evaluating file", "path", path)
	return r.EvalReader(f)
}

// Defined reports whether name is bound in the global namespace.
func (r *Runtime) Defined(name string) bool {
	return r.evaluator.Namespace().Has(name)
}

// Store returns the history store, or nil if none was configured.
func (r *Runtime) Store() store.Store {
	return r.store
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// Format returns the REPL display of a value: nothing for nil, strings
// quoted, everything else in its display form.
func Format(v Value) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(expr.Nil); ok {
		return ""
	}
	return expr.Quote(v)
}
