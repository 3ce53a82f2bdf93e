package terminal

import "sync/atomic"

// EventKind identifies an Event. The numeric values are part of the host
// contract.
type EventKind uint8

const (
	EventWakeup EventKind = iota
	EventTitle
	EventBell
	EventChildExit
	EventDirectoryChange
)

func (k EventKind) String() string {
	switch k {
	case EventWakeup:
		return "wakeup"
	case EventTitle:
		return "title"
	case EventBell:
		return "bell"
	case EventChildExit:
		return "child-exit"
	case EventDirectoryChange:
		return "directory-change"
	}
	return "unknown"
}

// Event is a notification for the host. Text carries the title or the
// raw OSC 7 payload; Code carries the child's exit status.
type Event struct {
	Kind EventKind
	Text string
	Code int
}

// EventSink receives events on the terminal's read goroutine. A sink may
// call Snapshot and the selection methods; it must not close the terminal
// synchronously.
type EventSink func(Event)

// dispatcher delivers events to a sink until it is disabled.
type dispatcher struct {
	sink     EventSink
	disabled atomic.Bool
}

func newDispatcher(sink EventSink) *dispatcher {
	return &dispatcher{sink: sink}
}

func (d *dispatcher) deliver(events ...Event) {
	if d.sink == nil {
		return
	}
	for _, ev := range events {
		if d.disabled.Load() {
			return
		}
		d.sink(ev)
	}
}

func (d *dispatcher) disable() {
	d.disabled.Store(true)
}
