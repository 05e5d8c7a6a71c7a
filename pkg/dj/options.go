// Package dj provides the public API for the dj interpreter.
package dj

import (
	"io"

	"github.com/charmbracelet/log"

	"nickandperla.net/dj/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithStore attaches a history store. The runtime closes it on Close.
func WithStore(s store.Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithMemoryStore configures an in-memory history store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithOutputWriter sets the output writer for the print builtins.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := io.WriteString(w, text)
			return err
		}
	}
}

// WithFileReader sets how the load builtin reads files.
func WithFileReader(read func(path string) ([]byte, error)) Option {
	return func(r *Runtime) {
		r.fileReader = read
	}
}

// WithMaxDepth limits the depth of nested calls.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// WithLogger sets the logger for runtime diagnostics. The default logger
// discards everything.
func WithLogger(l *log.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, DefaultPrelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the standard library prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}
