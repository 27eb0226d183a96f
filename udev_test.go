package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fake device entries, in place of *udev.Device
type fakeDev struct {
	subsystem, action, devnode, syspath string
}

func (f fakeDev) Syspath() string   { return f.syspath }
func (f fakeDev) Subsystem() string { return f.subsystem }
func (f fakeDev) Action() string    { return f.action }
func (f fakeDev) Devnode() string   { return f.devnode }

func TestParseAction(t *testing.T) {
	for in, want := range map[string]eventAction{
		"add":     actionAdd,
		"remove":  actionRemove,
		"change":  actionChange,
		"bind":    actionUnknown,
		"move":    actionUnknown,
		"offline": actionUnknown,
		"":        actionUnknown,
	} {
		assert.Equal(t, want, parseAction(in), in)
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "add", actionAdd.String())
	assert.Equal(t, "remove", actionRemove.String())
	assert.Equal(t, "change", actionChange.String())
	assert.Equal(t, "unknown", actionUnknown.String())
}

func TestToEventForwardsDrm(t *testing.T) {
	ev, ok := toEvent(fakeDev{
		subsystem: "drm",
		action:    "change",
		devnode:   "/dev/dri/card0",
	})
	assert.True(t, ok)
	assert.Equal(t, deviceEvent{
		Subsystem: "drm",
		Action:    actionChange,
		DevNode:   "/dev/dri/card0",
	}, ev)
}

func TestToEventDropsOtherSubsystems(t *testing.T) {
	for _, sub := range []string{"hid", "usb", "block", ""} {
		_, ok := toEvent(fakeDev{subsystem: sub, action: "add"})
		assert.False(t, ok, sub)
	}
}

// unknown actions and missing device nodes still count as "topology may
// have changed"
func TestToEventForwardsUnknownAndBare(t *testing.T) {
	ev, ok := toEvent(fakeDev{subsystem: "drm", action: "bind"})
	assert.True(t, ok)
	assert.Equal(t, actionUnknown, ev.Action)
	assert.Empty(t, ev.DevNode)
}

func TestConnectorString(t *testing.T) {
	assert.Equal(t, "card0-HDMI-A-1 connected",
		connector{Name: "card0-HDMI-A-1", Status: "connected"}.String())
	assert.Equal(t, "card0 unknown", connector{Name: "card0"}.String())
}
