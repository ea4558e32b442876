package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aerissecure/docmerge/batch"
)

// controller is the part of batch.Controller driven from stdin.
type controller interface {
	RequestPause()
	RequestResume()
	RequestCancel()
	Progress() batch.Progress
}

// control reads line commands from r until ctx is done or r is exhausted.
func control(ctx context.Context, r io.Reader, w io.Writer, c controller) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if msg := command(scanner.Text(), c); msg != "" {
			fmt.Fprintln(w, msg)
		}
	}
}

// command applies one line and returns a reply, if any.
func command(line string, c controller) string {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return ""
	case "p", "pause":
		c.RequestPause()
	case "r", "resume":
		c.RequestResume()
	case "c", "cancel", "q", "quit":
		c.RequestCancel()
	case "s", "status":
		p := c.Progress()
		return fmt.Sprintf("%s: %d/%d (%s)", p.Status, p.Current, p.Total, p.State)
	default:
		return fmt.Sprintf("unknown command %q (pause, resume, cancel, status)", strings.TrimSpace(line))
	}
	return ""
}

// progressPrinter writes one line per event to w.
func progressPrinter(w io.Writer) batch.Observer {
	var mu sync.Mutex
	return batch.ObserverFunc(func(e batch.Event) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Type {
		case batch.EventStarted:
			fmt.Fprintf(w, "Generating %d documents...\n", e.Total)
		case batch.EventRowDone:
			fmt.Fprintf(w, "[%d/%d] %s\n", e.Row, e.Total, e.Path)
		case batch.EventRowFailed:
			fmt.Fprintf(w, "[%d/%d] failed: %v\n", e.Row, e.Total, e.Err)
		case batch.EventPaused, batch.EventResumed, batch.EventCancelRequested:
			fmt.Fprintln(w, e.Message)
		case batch.EventConsolidated:
			fmt.Fprintf(w, "Combined: %s\n", e.Path)
		case batch.EventConsolidateFailed:
			fmt.Fprintf(w, "Combining failed: %v\n", e.Err)
		}
	})
}

// summarize prints the final state of a run.
func summarize(w io.Writer, out batch.Outcome) {
	failed := len(out.Rows) - len(out.Outputs)
	switch out.State {
	case batch.StateCancelled:
		fmt.Fprintf(w, "Cancelled after %d of %d rows", out.Processed, out.Total)
	default:
		fmt.Fprintf(w, "Completed %d rows", out.Total)
	}
	if failed > 0 {
		fmt.Fprintf(w, ", %d failed", failed)
	}
	fmt.Fprintln(w, ".")
}
