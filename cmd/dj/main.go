// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command dj is the dj interpreter CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nickandperla.net/dj/internal/config"
	"nickandperla.net/dj/internal/scanner"
	"nickandperla.net/dj/internal/store"
	"nickandperla.net/dj/pkg/dj"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	eval        string
	configPath  string
	history     string
	historyFile string
	logLevel    string
	cut         bool
	noStdlib    bool
}

var errorLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("error")

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exit *dj.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	printError(stderr, err)
	return 1
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "dj [file]",
		Short: "dj – a small lisp with an interactive line editor",
		Long: "dj evaluates a file, a string given with --eval, or starts a REPL.\n" +
			"The REPL edits lines in raw mode when stdin is a terminal and reads\n" +
			"plain lines otherwise.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			logger, err := newLogger(stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "policy", cfg.Policy, "history", cfg.History.Backend)

			opts := []dj.Option{dj.WithOutput(stdout), dj.WithLogger(logger)}
			if f.noStdlib {
				opts = append(opts, dj.WithNoStdlib())
			}

			switch {
			case len(args) == 1:
				rt := dj.New(opts...)
				defer rt.Close()
				return runFile(rt, args[0], stdout, stderr)
			case f.eval != "":
				rt := dj.New(opts...)
				defer rt.Close()
				return runEval(rt, f.eval, stdout)
			}

			st, err := openHistory(cfg.History, logger)
			if err != nil {
				return err
			}
			rt := dj.New(append(opts, dj.WithStore(st))...)
			defer rt.Close()
			return runREPL(cmd.Context(), rt, cfg, replIO{in: stdin, out: stdout, err: stderr}, logger)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())

	cmd.Flags().StringVarP(&f.eval, "eval", "e", "", "evaluate a dj string and exit")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to the YAML config file")
	cmd.Flags().StringVar(&f.history, "history", "", "history backend: memory, sqlite or bolt")
	cmd.Flags().StringVar(&f.historyFile, "history-file", "", "history database path")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&f.cut, "cut", false, "submit only the text before the cursor on Enter")
	cmd.Flags().BoolVar(&f.noStdlib, "no-stdlib", false, "disable the standard library prelude")
	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	path := f.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if f.cut {
		cfg.Policy = config.PolicyCutAtCursor
	}
	if cmd.Flags().Changed("history") {
		cfg.History.Backend = strings.ToLower(f.history)
	}
	if cmd.Flags().Changed("history-file") {
		cfg.History.Path = f.historyFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(f.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "dj",
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// openHistory opens the configured store and trims it to the configured
// limit when the backend supports it.
func openHistory(hc config.HistoryConfig, logger *log.Logger) (store.Store, error) {
	backend, ok := store.ParseBackend(hc.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, hc.Backend)
	}
	st, err := store.Open(backend, hc.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if p, ok := st.(store.Pruner); ok && hc.Limit > 0 {
		if err := p.Prune(hc.Limit); err != nil {
			logger.Warn("history prune failed", "err", err)
		}
	}
	logger.Debug("history opened", "backend", backend, "path", hc.Path)
	return st, nil
}

// runFile evaluates a whole file. A syntax error is reported together with
// the tokens scanned before it.
func runFile(rt *dj.Runtime, path string, stdout, stderr io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	prog, err := rt.Parse(string(src))
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		dumpTokens(stderr, string(src))
		return fmt.Errorf("%s: parse failed", path)
	}
	v, err := rt.Exec(prog)
	if err != nil {
		return err
	}
	if s := dj.Format(v); s != "" {
		fmt.Fprintln(stdout, s)
	}
	return nil
}

func runEval(rt *dj.Runtime, src string, stdout io.Writer) error {
	v, err := rt.Eval(src)
	if err != nil {
		return err
	}
	if s := dj.Format(v); s != "" {
		fmt.Fprintln(stdout, s)
	}
	return nil
}

func dumpTokens(w io.Writer, src string) {
	items, _ := scanner.NewFromString(src).All()
	fmt.Fprintln(w, "tokens:")
	for _, it := range items {
		fmt.Fprintf(w, "  %s %s %q\n", it.Pos, it.Token, it.Value)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s: %v\n", errorLabel, err)
}
