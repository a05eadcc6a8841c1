package browse

import (
	"github.com/charmbracelet/log"
)

// TriggerKind is the class of event that started a fetch sequence.
type TriggerKind int

const (
	TriggerLoad TriggerKind = iota
	TriggerSearch
	TriggerPage

	triggerKinds
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerLoad:
		return "initial-load"
	case TriggerSearch:
		return "search-submit"
	case TriggerPage:
		return "page-change"
	default:
		return "unknown"
	}
}

// EventType enumerates session notifications.
type EventType int

const (
	EventLoading   EventType = iota // in-flight counters changed; see Event.Loading
	EventUpdated                    // a response was applied to the state
	EventFailed                     // a fetch failed; see Event.Err
	EventStale                      // a superseded response was dropped
	EventScrollTop                  // a page change started
)

// Event is sent on [Options.Events] without blocking; a full channel drops it.
type Event struct {
	Type    EventType
	Trigger TriggerKind
	Loading bool
	Err     error
}

// ErrorReporter receives every fetch failure surfaced by a trigger.
type ErrorReporter interface {
	Report(kind TriggerKind, err error)
}

// ReporterFunc adapts a function to [ErrorReporter].
type ReporterFunc func(kind TriggerKind, err error)

func (f ReporterFunc) Report(kind TriggerKind, err error) { f(kind, err) }

// LogReporter reports failures through a [log.Logger].
type LogReporter struct {
	Logger *log.Logger
}

func (r LogReporter) Report(kind TriggerKind, err error) {
	r.Logger.Error("fetch failed", "trigger", kind, "error", err)
}
