package terminal_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	. "nickandperla.net/dj/internal/terminal"
	"nickandperla.net/dj/internal/terminal/termtest"
)

func TestSessionEnterLeave(t *testing.T) {
	dev := termtest.NewDevice()
	s := NewSession(dev, "> ")

	if err := s.Enter(); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if !s.Active() || !dev.Raw {
		t.Fatal("expected raw mode after Enter")
	}
	if !strings.Contains(dev.Output(), "> "+ansi.HideCursor) {
		t.Errorf("expected prompt and hidden cursor, got %q", dev.Output())
	}

	if err := s.Leave(); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if err := s.Leave(); err != nil {
		t.Fatalf("second Leave failed: %v", err)
	}
	if s.Active() || dev.Raw {
		t.Error("expected cooked mode after Leave")
	}
	if dev.MakeRaws != 1 || dev.Restores != 1 {
		t.Errorf("expected one MakeRaw and one Restore, got %d and %d", dev.MakeRaws, dev.Restores)
	}
	if !strings.HasSuffix(dev.Output(), ansi.ShowCursor+"\n") {
		t.Errorf("expected output to end with shown cursor and newline, got %q", dev.Output())
	}
	if last := dev.RawWrites[len(dev.RawWrites)-1]; last {
		t.Error("Leave wrote its output before restoring cooked mode")
	}
}

func TestSessionLeaveWithoutEnter(t *testing.T) {
	dev := termtest.NewDevice()
	s := NewSession(dev, "> ")
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if dev.Restores != 0 || dev.Output() != "" {
		t.Error("Leave on an inactive session should do nothing")
	}
}

func TestSessionEnterError(t *testing.T) {
	dev := termtest.NewDevice()
	dev.MakeRawErr = errors.New("not a terminal")
	s := NewSession(dev, "> ")
	if err := s.Enter(); !errors.Is(err, dev.MakeRawErr) {
		t.Fatalf("expected MakeRaw error, got %v", err)
	}
	if s.Active() {
		t.Error("session should not be active after a failed Enter")
	}
}

func TestSessionLeaveRestoreError(t *testing.T) {
	dev := termtest.NewDevice()
	dev.RestoreErr = errors.New("device gone")
	s := NewSession(dev, "> ")
	if err := s.Enter(); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if err := s.Leave(); !errors.Is(err, dev.RestoreErr) {
		t.Fatalf("expected Restore error, got %v", err)
	}
	if !strings.HasSuffix(dev.Output(), ansi.ShowCursor+"\n") {
		t.Error("cursor should be shown even when Restore fails")
	}
	if s.Active() {
		t.Error("session should not stay active after Leave")
	}
}

func TestSessionWidth(t *testing.T) {
	dev := termtest.NewDevice()
	dev.Width = 33
	s := NewSession(dev, "> ")
	w, err := s.Width()
	if err != nil || w != 33 {
		t.Errorf("Width() = %d, %v; want 33, nil", w, err)
	}
}
