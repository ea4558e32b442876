package batch

import "time"

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates the run has loaded its inputs and begins rows.
	EventStarted EventType = iota
	// EventRowDone indicates a row was merged and converted.
	EventRowDone
	// EventRowFailed indicates a row's conversion failed; the run continues.
	EventRowFailed
	// EventPaused indicates a pause was requested.
	EventPaused
	// EventResumed indicates a resume was requested.
	EventResumed
	// EventCancelRequested indicates a cancel was requested.
	EventCancelRequested
	// EventConsolidated indicates the combined output was written.
	EventConsolidated
	// EventConsolidateFailed indicates the combined output could not be written.
	EventConsolidateFailed
	// EventCompleted indicates every row was processed.
	EventCompleted
	// EventCancelled indicates the run stopped on request.
	EventCancelled
	// EventFailed indicates a fatal error.
	EventFailed
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventRowDone:
		return "row-done"
	case EventRowFailed:
		return "row-failed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventCancelRequested:
		return "cancel-requested"
	case EventConsolidated:
		return "consolidated"
	case EventConsolidateFailed:
		return "consolidate-failed"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a status update emitted by the Controller.
type Event struct {
	Type      EventType
	Row       int    // 1-based row index, 0 when not row specific
	Total     int    // rows in the source
	Path      string // output written, if any
	Message   string // human readable status
	Err       error
	Timestamp time.Time
}

// Observer receives events. OnEvent is called from the worker goroutine and
// from whichever goroutine calls the Request methods, so implementations must
// be safe for concurrent use and should return quickly.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}

type nullObserver struct{}

func (nullObserver) OnEvent(Event) {}
