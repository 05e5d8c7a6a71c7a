package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnexpectedEOF is returned when input ends inside an expression.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Piped reads expressions from a non-terminal input such as a pipe. It
// uses the same accumulation as Loop, with the cursor always at the end
// of the line.
type Piped struct {
	rd  *bufio.Reader
	acc *Accumulator
	// Prompts written before each line, if out is set.
	out                io.Writer
	prompt, contPrompt string
}

// PipedOption configures a Piped reader.
type PipedOption func(*Piped)

// WithPrompts writes prompt before each first line and contPrompt before
// each continuation line.
func WithPrompts(out io.Writer, prompt, contPrompt string) PipedOption {
	return func(p *Piped) {
		p.out = out
		p.prompt = prompt
		p.contPrompt = contPrompt
	}
}

// NewPiped returns a reader of expressions from r.
func NewPiped(r io.Reader, parse ParseFunc, opts ...PipedOption) *Piped {
	p := &Piped{rd: bufio.NewReader(r), acc: NewAccumulator(AppendAll, parse)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Read reads one expression. Blank lines between expressions are skipped.
// At the end of input it returns a Shutdown outcome, or an error wrapping
// ErrUnexpectedEOF and the parse error if an expression was left open.
func (p *Piped) Read(ctx context.Context) (Outcome, error) {
	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			p.acc.Abort()
			return Outcome{}, err
		}
		p.writePrompt()

		line, err := p.rd.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			p.acc.Abort()
			return Outcome{}, err
		}
		if errors.Is(err, io.EOF) && line == "" {
			if p.acc.State() == StateAccumulating {
				p.acc.Abort()
				return Outcome{}, fmt.Errorf("%w: %w", ErrUnexpectedEOF, lastErr)
			}
			prog, perr := p.acc.parse("(exit 0)")
			if perr != nil {
				return Outcome{}, perr
			}
			return Outcome{Kind: Shutdown, Program: prog}, nil
		}

		line = strings.TrimRight(line, "\r\n")
		if p.acc.State() != StateAccumulating && strings.TrimSpace(line) == "" {
			continue
		}
		submitted, _ := p.acc.Cut(line, len(line))
		v := p.acc.Submit(submitted)
		switch v.State {
		case StateComplete:
			return Outcome{Kind: Completed, Program: v.Program}, nil
		case StateFatal:
			return Outcome{}, v.Err
		}
		lastErr = v.Err
	}
}

func (p *Piped) writePrompt() {
	if p.out == nil {
		return
	}
	if p.acc.State() == StateAccumulating {
		io.WriteString(p.out, p.contPrompt)
	} else {
		io.WriteString(p.out, p.prompt)
	}
}
