package main

import (
	"context"
	"errors"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
)

// Budget for waiting on the kernel to publish connector state after a
// hotplug burst: a fixed settle sleep, then a bounded fixed-interval poll.
const (
	readySettle   = time.Second
	readyInterval = 200 * time.Millisecond
	readyAttempts = 20
)

var errNoDisplays = errors.New("no connected displays yet")

// displayProbe reports whether at least one drm connector is connected.
type displayProbe func() (bool, error)

// readyWaiter gives the kernel and the display server time to register
// connectors before the reconciler command runs. Hardware takes a moment
// after the hotplug event to report "connected", and running the command
// before that tends to produce a layout for the old topology.
type readyWaiter struct {
	probe    displayProbe
	settle   time.Duration
	interval time.Duration
	attempts uint
	logger   *zap.Logger
}

func newReadyWaiter(logger *zap.Logger) *readyWaiter {
	return &readyWaiter{
		probe:    anyDisplayConnected,
		settle:   readySettle,
		interval: readyInterval,
		attempts: readyAttempts,
		logger:   logger,
	}
}

// Wait blocks until a connector reports connected, the poll budget runs
// out, or ctx is canceled. Best effort either way: running out of budget
// is not an error, the reconciler can sort out the real state itself.
func (w *readyWaiter) Wait(ctx context.Context) {
	w.logger.Debug("waiting for displays to settle")
	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}

	start := time.Now()
	err := retry.Do(func() error {
		connected, err := w.probe()
		if err != nil {
			return err
		}
		if !connected {
			return errNoDisplays
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		w.logger.Debug("gave up waiting for a connected display",
			zap.Duration("waited", time.Since(start)), zap.Error(err))
		return
	}
	w.logger.Debug("display connected",
		zap.Duration("waited", time.Since(start)))
}
