package main

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// Environment variables consulted for the session's desktop, in order.
var desktopEnvVars = []string{
	"XDG_CURRENT_DESKTOP",
	"XDG_SESSION_DESKTOP",
	"DESKTOP_SESSION",
}

// Session processes that identify a desktop when no env var is set, e.g.
// when running under a systemd user unit with a stripped environment.
var sessionProcs = map[string]string{
	"gnome-shell":      "GNOME",
	"plasmashell":      "KDE",
	"cosmic-comp":      "COSMIC",
	"xfce4-session":    "XFCE",
	"cinnamon":         "X-Cinnamon",
	"mate-session":     "MATE",
	"lxqt-session":     "LXQt",
	"budgie-panel":     "Budgie",
	"pantheon-greeter": "Pantheon",
}

// stubbed in tests
var procScan = desktopFromProcs

// currentDesktop identifies the active desktop environment. Queried fresh
// on every firing rather than cached at startup, so a different session
// after a logout is honored without restarting the daemon. Returns "" when
// no desktop is detected; an unknown desktop is never excluded.
func currentDesktop(logger *zap.Logger) string {
	for _, v := range desktopEnvVars {
		if desktop := strings.TrimSpace(os.Getenv(v)); desktop != "" {
			logger.Debug("desktop environment detected",
				zap.String("var", v), zap.String("desktop", desktop))
			return desktop
		}
	}
	if desktop := procScan(); desktop != "" {
		logger.Debug("desktop environment detected from session process",
			zap.String("desktop", desktop))
		return desktop
	}
	logger.Debug("no desktop environment detected")
	return ""
}

// desktopFromProcs scans running process names for a known session
// process. Lookup failures just mean "no desktop detected".
func desktopFromProcs() string {
	procs, err := process.Processes()
	if err != nil {
		return ""
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // process may have exited
		}
		if desktop, ok := sessionProcs[strings.ToLower(name)]; ok {
			return desktop
		}
	}
	return ""
}

// shouldExclude reports whether the desktop manages displays itself.
// Matching is case-insensitive substring containment in either direction,
// so "ubuntu:GNOME" is covered by a configured "GNOME". An empty desktop
// never matches. The matched entry is returned for the log line.
func shouldExclude(desktop string, excluded []string) (bool, string) {
	if desktop == "" {
		return false, ""
	}
	dl := strings.ToLower(desktop)
	for _, entry := range excluded {
		el := strings.ToLower(strings.TrimSpace(entry))
		if el == "" {
			continue
		}
		if strings.Contains(dl, el) || strings.Contains(el, dl) {
			return true, entry
		}
	}
	return false, ""
}
