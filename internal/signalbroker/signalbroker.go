// Package signalbroker listens for termination signals. The first signal asks
// for a graceful stop; a second signal of the same type cancels the context.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	os.Interrupt,
}

// New returns a channel receiving termination signals, or sigs if given.
// Call Stop when done with it.
func New(sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)
	if len(sigs) == 0 {
		sigs = termSignals
	}
	signal.Notify(ch, sigs...)
	return ch
}

// Stop stops delivery to ch.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}

// Watch calls graceful on the first signal of each type and cancel on the
// second. It returns when ctx is done, sigCh is closed, or after cancel.
func Watch(ctx context.Context, log zerolog.Logger, sigCh <-chan os.Signal, graceful func(), cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			if _, again := seen[sig]; again {
				log.Warn().Str("signal", sig.String()).Msg("second signal, stopping now")
				cancel()
				return
			}
			log.Info().Str("signal", sig.String()).Msg("stopping after the current row; repeat to abort")
			seen[sig] = struct{}{}
			graceful()
		}
	}
}
