package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"nickandperla.net/dj/internal/config"
	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/lineedit"
	"nickandperla.net/dj/internal/repl"
	"nickandperla.net/dj/internal/store"
	"nickandperla.net/dj/internal/terminal"
	"nickandperla.net/dj/pkg/dj"
)

type replIO struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// exprReader yields one complete expression per call.
type exprReader interface {
	Read(ctx context.Context) (repl.Outcome, error)
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "dj REPL (Ctrl+D to exit, Esc to drop the current expression)")
	fmt.Fprintln(w)
}

// runREPL picks the raw line editor when stdin and stdout are terminals and
// the plain line reader otherwise, then evaluates until shutdown.
func runREPL(ctx context.Context, rt *dj.Runtime, cfg config.Config, rio replIO, logger *log.Logger) error {
	in, inFile := rio.in.(*os.File)
	out, outFile := rio.out.(*os.File)
	if !inFile || !outFile || !terminal.IsTerminal(in) || !terminal.IsTerminal(out) {
		logger.Debug("stdin is not a terminal, reading plain lines")
		return evalLoop(ctx, rt, repl.NewPiped(rio.in, rt.Parse), rio, false)
	}

	rd, err := newLineEditor(rt, cfg, in, out, logger)
	if err != nil {
		return err
	}
	printBanner(rio.out)
	return evalLoop(ctx, rt, rd, rio, true)
}

func newLineEditor(rt *dj.Runtime, cfg config.Config, in, out *os.File, logger *log.Logger) (*repl.Loop, error) {
	policy, err := repl.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	interrupt, err := repl.ParseInterruptPolicy(cfg.Interrupt)
	if err != nil {
		return nil, err
	}

	history := lineedit.NewHistory()
	if st := rt.Store(); st != nil {
		cmds, err := st.Cmds(cfg.History.Limit)
		if err != nil {
			logger.Warn("history load failed", "err", err)
		}
		history = lineedit.NewHistory(
			lineedit.WithEntries(store.Texts(cmds)),
			lineedit.WithSink(func(line string) {
				if _, err := st.AddCmd(line); err != nil {
					logger.Warn("history write failed", "err", err)
				}
			}),
		)
		logger.Debug("history loaded", "entries", len(cmds))
	}

	tty := terminal.NewTTY(in, out)
	return repl.NewLoop(
		terminal.NewSession(tty, cfg.Prompt),
		terminal.NewReader(tty),
		rt.Parse,
		repl.WithPolicy(policy),
		repl.WithHistory(history),
		repl.WithWidth(cfg.MaxWidth, cfg.Margin),
		repl.WithInterrupt(interrupt, cfg.InterruptExitCode),
	), nil
}

// evalLoop evaluates expressions until a shutdown program exits or input
// fails. Syntax and runtime errors are reported and the loop goes on.
func evalLoop(ctx context.Context, rt *dj.Runtime, rd exprReader, rio replIO, interactive bool) error {
	for {
		out, err := rd.Read(ctx)
		if err != nil {
			var se *diag.Error
			if errors.Is(err, repl.ErrUnexpectedEOF) || !errors.As(err, &se) {
				return err
			}
			printError(rio.err, err)
			continue
		}
		if out.Kind == repl.Aborted {
			continue
		}

		v, err := rt.Exec(out.Program)
		var exit *dj.ExitError
		switch {
		case errors.As(err, &exit):
			return err
		case err != nil:
			printError(rio.err, err)
			continue
		}
		if s := dj.Format(v); s != "" || interactive {
			fmt.Fprintln(rio.out, s)
		}
	}
}
