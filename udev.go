package main

import (
	"context"
	"strings"

	"github.com/jochenvg/go-udev"
)

// The device class for graphics hardware; the only subsystem we care about.
const drmSubsystem = "drm"

// eventAction classifies a udev action string. Anything beyond the three
// hotplug actions (bind, move, offline, ...) maps to unknown and is still
// forwarded; the debounce window absorbs spurious events, so there is no
// value in guessing which ones matter.
type eventAction int

const (
	actionUnknown eventAction = iota
	actionAdd
	actionRemove
	actionChange
)

func parseAction(s string) eventAction {
	switch s {
	case "add":
		return actionAdd
	case "remove":
		return actionRemove
	case "change":
		return actionChange
	}
	return actionUnknown
}

func (a eventAction) String() string {
	switch a {
	case actionAdd:
		return "add"
	case actionRemove:
		return "remove"
	case actionChange:
		return "change"
	}
	return "unknown"
}

// deviceEvent is one "display topology may have changed" notification.
type deviceEvent struct {
	Subsystem string
	Action    eventAction
	DevNode   string
}

// abstract the *udev.Device type so I can create test entries
type device interface {
	Syspath() string
	Subsystem() string
	Action() string
	Devnode() string
}

// toEvent converts a udev device to a deviceEvent, dropping anything
// outside drm. The netlink filter already matches on subsystem; this is
// the adapter's own boundary check for devices that slip through before
// the filter takes effect.
func toEvent(d device) (deviceEvent, bool) {
	if d.Subsystem() != drmSubsystem {
		return deviceEvent{}, false
	}
	return deviceEvent{
		Subsystem: d.Subsystem(),
		Action:    parseAction(d.Action()),
		DevNode:   d.Devnode(),
	}, true
}

// watchEvents subscribes to the kernel's udev netlink socket, filtered to
// the drm subsystem, and forwards events in arrival order. Close done to
// unsubscribe. The returned channel closes when the netlink connection is
// gone; with done still open that means the bus was lost, which the
// caller treats as fatal.
func watchEvents(done <-chan struct{}) (<-chan deviceEvent, error) {
	u := udev.Udev{}
	m := u.NewMonitorFromNetlink("udev")
	m.FilterAddMatchSubsystem(drmSubsystem)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-done
		cancel()
	}()
	ch, err := m.DeviceChan(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	events := make(chan deviceEvent)
	go func() {
		defer close(events)
		for d := range ch {
			ev, ok := toEvent(d)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events, nil
}

// connector is one drm connector from a sysfs enumeration.
type connector struct {
	Name   string
	Status string
}

func (c connector) String() string {
	status := c.Status
	if status == "" {
		status = "unknown"
	}
	return c.Name + " " + status
}

// drmConnectors enumerates the drm subsystem and returns the card
// connectors with their sysfs status attribute.
func drmConnectors() ([]connector, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	e.AddMatchSubsystem(drmSubsystem)
	e.AddMatchIsInitialized()

	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}
	conns := make([]connector, 0, len(devices))
	for _, d := range devices {
		if !strings.Contains(d.Sysname(), "card") {
			continue
		}
		conns = append(conns, connector{
			Name:   d.Sysname(),
			Status: strings.TrimSpace(d.SysattrValue("status")),
		})
	}
	return conns, nil
}

// anyDisplayConnected reports whether at least one connector is live.
// Probe used by the ready waiter after a debounce firing.
func anyDisplayConnected() (bool, error) {
	conns, err := drmConnectors()
	if err != nil {
		return false, err
	}
	for _, c := range conns {
		if c.Status == "connected" {
			return true, nil
		}
	}
	return false, nil
}
