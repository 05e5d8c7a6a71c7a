package terminal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"github.com/google/go-cmp/cmp"

	. "nickandperla.net/dj/internal/terminal"
)

func openPTY(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	return ptmx, tty
}

func TestTTYOnPTY(t *testing.T) {
	ptmx, tty := openPTY(t)
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 100}); err != nil {
		t.Fatalf("Setsize failed: %v", err)
	}

	dev := NewTTY(tty, tty)
	if err := dev.MakeRaw(); err != nil {
		t.Fatalf("MakeRaw failed: %v", err)
	}
	defer dev.Restore()

	w, h, err := dev.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if w != 100 || h != 24 {
		t.Errorf("Size() = %dx%d, want 100x24", w, h)
	}

	// In raw mode the keys arrive unprocessed, Ctrl-C included.
	if _, err := ptmx.Write([]byte("\x1b[A")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	rd := NewReader(dev)
	var got []Event
	ev, err := rd.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	got = append(got, ev)
	if _, err := ptmx.Write([]byte("\x03")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ev, err = rd.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent failed: %v", err)
	}
	got = append(got, ev)

	if diff := cmp.Diff([]Event{Key(KeyUp), Ctrl('c')}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if err := dev.Restore(); err != nil {
		t.Errorf("Restore failed: %v", err)
	}
	if err := dev.Restore(); err != nil {
		t.Errorf("second Restore failed: %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	_, tty := openPTY(t)
	if !IsTerminal(tty) {
		t.Error("pty slave should be a terminal")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file should not be a terminal")
	}
}
