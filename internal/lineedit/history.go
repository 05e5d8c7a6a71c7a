package lineedit

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// History is the log of submitted lines with a browse position.
//
// Browsing goes from the newest entry toward the oldest and clamps at both
// ends. Browsing never changes the entries.
type History struct {
	entries []string
	browse  int // -1 when not browsing
	sink    func(line string)
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithEntries preloads entries, oldest first.
func WithEntries(entries []string) HistoryOption {
	return func(h *History) {
		h.entries = append(h.entries, entries...)
	}
}

// WithSink sets a function called with every recorded line.
func WithSink(fn func(line string)) HistoryOption {
	return func(h *History) { h.sink = fn }
}

// NewHistory returns an empty history.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{browse: -1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record appends line with trailing whitespace trimmed, unless that leaves
// it empty, and stops browsing. It reports whether the line was kept.
func (h *History) Record(line string) bool {
	h.browse = -1
	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return false
	}
	h.entries = append(h.entries, line)
	if h.sink != nil {
		h.sink(line)
	}
	return true
}

// Previous moves one entry back, starting at the newest entry when not
// browsing, and returns the entry. It returns false if there are no
// entries.
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.browse < 0 {
		h.browse = len(h.entries) - 1
	} else if h.browse > 0 {
		h.browse--
	}
	return h.entries[h.browse], true
}

// Next moves one entry forward and returns the entry. It returns false if
// not browsing.
func (h *History) Next() (string, bool) {
	if h.browse < 0 {
		return "", false
	}
	if h.browse < len(h.entries)-1 {
		h.browse++
	}
	return h.entries[h.browse], true
}

// Search finds the best fuzzy match for pattern, preferring newer entries
// among equally good ones, and continues browsing from it.
func (h *History) Search(pattern string) (string, bool) {
	if pattern == "" {
		return h.Previous()
	}
	best := -1
	bestScore := 0
	for _, m := range fuzzy.Find(pattern, h.entries) {
		if best < 0 || m.Score > bestScore || (m.Score == bestScore && m.Index > best) {
			best, bestScore = m.Index, m.Score
		}
	}
	if best < 0 {
		return "", false
	}
	h.browse = best
	return h.entries[best], true
}

// Browsing reports whether a browse is in progress.
func (h *History) Browsing() bool { return h.browse >= 0 }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
