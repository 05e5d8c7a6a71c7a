package store

import "sync"

// Memory is an in-memory store for testing and for sessions that do not
// keep history.
type Memory struct {
	mu   sync.RWMutex
	cmds []Cmd
	seq  int
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// AddCmd appends a command.
func (m *Memory) AddCmd(text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.cmds = append(m.cmds, Cmd{Seq: m.seq, Text: text})
	return m.seq, nil
}

// Cmds returns the most recent commands, oldest first.
func (m *Memory) Cmds(limit int) ([]Cmd, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Cmd, len(m.cmds))
	copy(out, m.cmds)
	return lastN(out, limit), nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// Prune deletes all but the newest keep commands.
func (m *Memory) Prune(keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep >= 0 && len(m.cmds) > keep {
		m.cmds = append([]Cmd(nil), m.cmds[len(m.cmds)-keep:]...)
	}
	return nil
}
