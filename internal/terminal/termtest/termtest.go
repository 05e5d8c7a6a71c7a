// Package termtest provides a fake terminal device and a scripted event
// source for testing code that drives a terminal.Session.
package termtest

import (
	"bytes"
	"errors"
	"io"

	"github.com/charmbracelet/x/ansi"

	"nickandperla.net/dj/internal/terminal"
)

// Default size of a fake device.
const (
	Width  = 80
	Height = 24
)

// Device is an in-memory terminal.Device. Input is served in the chunks
// given to NewDevice, one chunk per Read, the way a tty delivers one key
// press at a time.
type Device struct {
	chunks [][]byte
	out    bytes.Buffer

	Width, Height int
	// Raw reports whether the device is currently in raw mode.
	Raw bool
	// MakeRaws and Restores count the mode switches.
	MakeRaws, Restores int
	// Errors injected into the corresponding calls.
	MakeRawErr, RestoreErr, SizeErr, WriteErr error
	// RawWrites records whether each Write happened in raw mode.
	RawWrites []bool
}

// NewDevice returns a device that yields the given input chunks.
func NewDevice(chunks ...string) *Device {
	d := &Device{Width: Width, Height: Height}
	for _, c := range chunks {
		d.chunks = append(d.chunks, []byte(c))
	}
	return d
}

func (d *Device) Read(p []byte) (int, error) {
	if len(d.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.chunks[0])
	if n == len(d.chunks[0]) {
		d.chunks = d.chunks[1:]
	} else {
		d.chunks[0] = d.chunks[0][n:]
	}
	return n, nil
}

func (d *Device) Write(p []byte) (int, error) {
	if d.WriteErr != nil {
		return 0, d.WriteErr
	}
	d.RawWrites = append(d.RawWrites, d.Raw)
	return d.out.Write(p)
}

func (d *Device) MakeRaw() error {
	if d.MakeRawErr != nil {
		return d.MakeRawErr
	}
	d.MakeRaws++
	d.Raw = true
	return nil
}

func (d *Device) Restore() error {
	d.Restores++
	d.Raw = false
	return d.RestoreErr
}

func (d *Device) Size() (int, int, error) {
	return d.Width, d.Height, d.SizeErr
}

// Output returns everything written so far, escape sequences included.
func (d *Device) Output() string { return d.out.String() }

// Text returns everything written so far with escape sequences removed.
func (d *Device) Text() string { return ansi.Strip(d.out.String()) }

// ErrNoMoreEvents is returned by Events once the script is exhausted.
var ErrNoMoreEvents = errors.New("no more events")

// Events is a scripted terminal.EventSource.
type Events struct {
	events []terminal.Event
	// OnRead, if set, is called before each event is returned.
	OnRead func(terminal.Event)
}

// NewEvents returns a source producing events in order.
func NewEvents(events ...terminal.Event) *Events {
	return &Events{events: events}
}

// Type returns the key presses that type s.
func Type(s string) []terminal.Event {
	var events []terminal.Event
	for _, r := range s {
		events = append(events, terminal.Char(r))
	}
	return events
}

// Then appends events to the script.
func (e *Events) Then(events ...terminal.Event) *Events {
	e.events = append(e.events, events...)
	return e
}

// Remaining returns the number of events not yet read.
func (e *Events) Remaining() int { return len(e.events) }

func (e *Events) ReadEvent() (terminal.Event, error) {
	if len(e.events) == 0 {
		return nil, ErrNoMoreEvents
	}
	ev := e.events[0]
	e.events = e.events[1:]
	if e.OnRead != nil {
		e.OnRead(ev)
	}
	return ev, nil
}
