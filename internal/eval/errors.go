package eval

import (
	"errors"
	"fmt"
)

// Runtime error classes. Errors returned by the evaluator wrap one of these.
var (
	ErrUndefined    = errors.New("undefined symbol")
	ErrType         = errors.New("type mismatch")
	ErrArity        = errors.New("wrong number of arguments")
	ErrDivideByZero = errors.New("division by zero")
	ErrNotCallable  = errors.New("not callable")
	ErrBadForm      = errors.New("malformed special form")
	ErrRecursion    = errors.New("maximum call depth exceeded")
)

// ExitError is returned when a program calls (exit). It is not a failure:
// the caller should end the process with Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// AsExit reports whether err is, or wraps, an exit request.
func AsExit(err error) (*ExitError, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

func arityError(name string, want string, got int) error {
	return fmt.Errorf("%w: %s expects %s, got %d", ErrArity, name, want, got)
}
