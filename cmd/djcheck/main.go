// djcheck: Syntax checker for .dj files.
//
// Each file is parsed without being evaluated. A file whose parse error
// only means more input is needed is reported as incomplete; any other
// parse error is reported as an error.
//
// Usage:
//
//	djcheck FILE [FILE...]
//	djcheck --dir DIR
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/parser"
)

// expectDirective marks a file whose parse is expected to fail.
const expectDirective = "; EXPECT: error"

type status int

const (
	statusOK status = iota
	statusIncomplete
	statusError
)

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path         string
	status       status
	err          error
	expectsError bool
}

func (r checkResult) String() string {
	switch r.status {
	case statusOK:
		return r.path + ": ok"
	case statusIncomplete:
		return fmt.Sprintf("%s: incomplete: %v", r.path, r.err)
	}
	return fmt.Sprintf("%s: error: %v", r.path, r.err)
}

// failed reports whether the result counts against the exit status.
func (r checkResult) failed() bool {
	if r.expectsError {
		return r.status == statusOK
	}
	return r.status != statusOK
}

// checkFile parses a .dj file and classifies the outcome.
func checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{path: path, status: statusError, err: err}
	}
	src := string(content)
	result := checkResult{path: path}
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == expectDirective {
			result.expectsError = true
			break
		}
	}

	_, err = parser.Parse(src)
	var se *diag.Error
	switch {
	case err == nil:
		result.status = statusOK
	case errors.As(err, &se) && se.Incomplete():
		result.status, result.err = statusIncomplete, err
	default:
		result.status, result.err = statusError, err
	}
	return result
}

// findFiles recursively finds all .dj files under dir.
func findFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".dj") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

var errFailed = errors.New("syntax check failed")

func newRootCmd(stdout io.Writer) *cobra.Command {
	var dirs []string
	cmd := &cobra.Command{
		Use:   "djcheck [--dir DIR] FILE...",
		Short: "Check .dj files for syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append([]string(nil), args...)
			for _, dir := range dirs {
				found, err := findFiles(dir)
				if err != nil {
					return fmt.Errorf("scanning directory %s: %w", dir, err)
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				return errors.New("no .dj files found")
			}

			failed := 0
			for _, f := range files {
				result := checkFile(f)
				line := result.String()
				if result.expectsError {
					line += " (expected error)"
				}
				fmt.Fprintln(stdout, line)
				if result.failed() {
					failed++
				}
			}
			fmt.Fprintf(stdout, "\n%d checked, %d failed\n", len(files), failed)
			if failed > 0 {
				return errFailed
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, "check every .dj file under DIR")
	return cmd
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
