// Package interrupt turns an OS interrupt into a one-shot flag that the main
// loop polls between units of work.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"github.com/louisbranch/steamicons/internal/platform/logging"
)

// Gate is a cooperative cancellation flag. It moves from unset to set at most
// once and is never reset.
type Gate struct {
	set    atomic.Bool
	logger *logging.Logger
}

// New creates an unset gate that logs through logger. A nil logger uses the
// process default.
func New(logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{logger: logger}
}

// Install starts watching for SIGINT and SIGTERM. The first signal sets the
// flag and restores default handling, so a second signal terminates the
// process. The returned function stops the watcher; it does not clear the flag.
func (g *Gate) Install() (stop func()) {
	g.logger.Infof("Press Ctrl+C at any time to exit")

	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			g.logger.Infof("%s received, exiting...", sig)
			signal.Stop(sigs)
			g.Trigger()
		case <-done:
		}
	}()

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			signal.Stop(sigs)
			close(done)
		}
	}
}

// Trigger sets the flag.
func (g *Gate) Trigger() {
	g.set.Store(true)
}

// Triggered reports whether the flag is set.
func (g *Gate) Triggered() bool {
	return g.set.Load()
}

// Check returns an INTERRUPTED error once the flag is set.
func (g *Gate) Check() error {
	if g.set.Load() {
		return apperrors.New(apperrors.CodeInterrupted, "stopping due to interrupt")
	}
	return nil
}
