package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var errBusClosed = errors.New("udev netlink connection lost")

type monitorState int

const (
	stateStarting monitorState = iota
	stateRunning
	stateStopping
	stateStopped
)

func (s monitorState) String() string {
	switch s {
	case stateStarting:
		return "starting"
	case stateRunning:
		return "running"
	case stateStopping:
		return "stopping"
	}
	return "stopped"
}

// monitor wires the event stream to the debouncer, the exclusion check and
// the command runner. Collaborators are plain funcs so tests can drive the
// whole loop without libudev or a shell.
type monitor struct {
	conf   *Config
	events <-chan deviceEvent
	logger *zap.Logger

	desktop func(*zap.Logger) string
	ready   func(context.Context)
	run     func(string) runResult

	state monitorState
}

func newMonitor(conf *Config, events <-chan deviceEvent, logger *zap.Logger) *monitor {
	waiter := newReadyWaiter(logger)
	return &monitor{
		conf:    conf,
		events:  events,
		logger:  logger,
		desktop: currentDesktop,
		ready:   waiter.Wait,
		run:     runCommand,
	}
}

// Run drives the loop until ctx is canceled (clean shutdown) or the event
// stream closes underneath us (bus lost, fatal). At most one command is
// outstanding at any time; a firing that lands while one is still running
// coalesces into a single follow-up run. An in-flight command is always
// allowed to finish, even during shutdown.
func (m *monitor) Run(ctx context.Context) error {
	m.state = stateStarting
	deb := newDebouncer(m.conf.debounce())
	defer deb.Stop()

	m.logger.Info("screenwatch starting",
		zap.String("command", m.conf.Command),
		zap.Float64("debounce_seconds", m.conf.DebounceDelay),
		zap.Strings("excluded_desktops", m.conf.ExcludedDesktops))
	m.state = stateRunning

	inflight := false // a command is executing
	rerun := false    // a firing arrived while one was executing
	finished := make(chan *runResult, 1)
	launch := func() {
		inflight = true
		go func() { finished <- m.fire(ctx) }()
	}

	for {
		select {
		case <-ctx.Done():
			m.state = stateStopping
			deb.Stop()
			if inflight {
				m.logger.Info("waiting for running command to finish")
				m.logResult(<-finished)
			}
			m.state = stateStopped
			m.logger.Info("screenwatch stopped")
			return nil

		case ev, ok := <-m.events:
			if !ok {
				if ctx.Err() != nil {
					// shutdown tore down the subscription first;
					// let the ctx.Done branch finish up
					m.events = nil
					continue
				}
				m.state = stateStopped
				m.logger.Error("udev event stream closed", zap.Error(errBusClosed))
				return errBusClosed
			}
			m.logger.Debug("drm event",
				zap.Stringer("action", ev.Action),
				zap.String("devnode", ev.DevNode))
			deb.Arm()

		case <-deb.C:
			m.logger.Info("debounce settled")
			if inflight {
				m.logger.Debug("command still running, queueing one re-run")
				rerun = true
				continue
			}
			launch()

		case res := <-finished:
			inflight = false
			m.logResult(res)
			if rerun {
				rerun = false
				launch()
			}
		}
	}
}

// fire runs one settle sequence: wait for connectors, re-query the
// desktop, check exclusion, run the command. Returns nil when the firing
// was skipped.
func (m *monitor) fire(ctx context.Context) *runResult {
	m.ready(ctx)

	desktop := m.desktop(m.logger)
	if excluded, match := shouldExclude(desktop, m.conf.ExcludedDesktops); excluded {
		m.logger.Info("desktop manages displays itself, skipping",
			zap.String("desktop", desktop), zap.String("matched", match))
		return nil
	}

	m.logger.Info("running command", zap.String("command", m.conf.Command))
	res := m.run(m.conf.Command)
	return &res
}

func (m *monitor) logResult(res *runResult) {
	if res == nil {
		return
	}
	switch {
	case res.Err != nil:
		m.logger.Error("command could not be launched",
			zap.Error(res.Err), zap.Duration("duration", res.Duration))
	case res.launchFailed():
		m.logger.Error("command not runnable",
			zap.Int("exit", res.ExitCode), zap.String("stderr", res.Stderr))
	case res.ExitCode != 0:
		m.logger.Warn("command exited non-zero",
			zap.Int("exit", res.ExitCode),
			zap.Duration("duration", res.Duration),
			zap.String("stderr", res.Stderr))
	default:
		m.logger.Info("command succeeded", zap.Duration("duration", res.Duration))
		if res.Stdout != "" {
			m.logger.Debug("command output", zap.String("stdout", res.Stdout))
		}
	}
}
