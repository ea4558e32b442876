package batch

import (
	"context"
	"sync"
)

// State is the lifecycle state of a Controller.
type State int

const (
	// StateIdle means no run has started yet.
	StateIdle State = iota
	// StateRunning means rows are being processed.
	StateRunning
	// StatePaused means the worker is waiting for a resume before the next row.
	StatePaused
	// StateCompleted means every row was consumed.
	StateCompleted
	// StateCancelled means the run stopped on request.
	StateCancelled
	// StateFailed means a fatal error aborted the run.
	StateFailed
)

// String implements the Stringer interface for State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress is a snapshot of a run, safe to read from any goroutine.
type Progress struct {
	Current int    // rows finished
	Total   int    // rows in the source
	Status  string // human readable status line
	State   State
}

// gate is a resumable wait condition: open while running, closed while
// paused. Waiters block on a channel, so a paused worker uses no CPU.
type gate struct {
	mu   sync.Mutex
	open chan struct{} // closed channel == gate open
}

func newGate() *gate {
	ch := make(chan struct{})
	close(ch)
	return &gate{open: ch}
}

// close shuts the gate. It reports false if the gate was already shut.
func (g *gate) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
		return true
	default:
		return false
	}
}

// release opens the gate. It reports false if the gate was already open.
func (g *gate) release() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return false
	default:
		close(g.open)
		return true
	}
}

func (g *gate) isOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return true
	default:
		return false
	}
}

// wait blocks until the gate is open or ctx is done.
func (g *gate) wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
