// Package store provides persistence for dj command history.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the interface for command history persistence.
type Store interface {
	// AddCmd appends a command and returns its sequence number.
	AddCmd(text string) (int, error)
	// Cmds returns up to limit of the most recent commands, oldest first.
	// A limit of zero or less returns every command.
	Cmds(limit int) ([]Cmd, error)
	// Close releases resources.
	Close() error
}

// Cmd is one entry of the command history.
type Cmd struct {
	Seq  int
	Text string
}

// Texts returns the text of each command.
func Texts(cmds []Cmd) []string {
	texts := make([]string, len(cmds))
	for i, c := range cmds {
		texts[i] = c.Text
	}
	return texts
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown history backend")

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, bool) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendMemory:
		return BackendMemory, true
	case BackendSQLite:
		return BackendSQLite, true
	case BackendBolt, "bbolt":
		return BackendBolt, true
	}
	return "", false
}

// Open opens a store of the given backend at path, creating parent
// directories for file-backed stores.
func Open(backend Backend, path string) (Store, error) {
	if backend == BackendMemory {
		return NewMemory(), nil
	}
	if path == "" {
		return nil, fmt.Errorf("%s history store needs a path", backend)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	switch backend {
	case BackendSQLite:
		return NewSQLite(path)
	case BackendBolt:
		return NewBolt(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// lastN trims cmds to the last limit entries.
func lastN(cmds []Cmd, limit int) []Cmd {
	if limit > 0 && len(cmds) > limit {
		return cmds[len(cmds)-limit:]
	}
	return cmds
}

// Pruner is implemented by stores that can drop old commands.
type Pruner interface {
	// Prune deletes all but the newest keep commands.
	Prune(keep int) error
}
