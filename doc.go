/*
Screenwatch watches udev for display (drm) hotplug events and runs a
configured command once the event burst has settled. Designed to run as
part of a user session on a Linux system, typically paired with autorandr
or a similar display-layout tool.

Plug a monitor in or out and the kernel emits a burst of drm events.
Screenwatch debounces the burst, waits for connector state to settle, then
checks whether your desktop environment already manages displays itself
(GNOME, KDE and friends do); if not, it runs your command through the
shell with the session's own environment, so wrapper scripts can rely on
DISPLAY and XAUTHORITY being set.

To see what the kernel reports for your hardware, run watch mode and plug
in a monitor:

    screenwatch watch
    (plug in monitor)

To see the current connector state:

    screenwatch list

It searches for a TOML formatted config file passed on the command line or
in..

	$XDG_CONFIG_HOME/screenwatch/config.toml
	/etc/screenwatch/config.toml

Every setting has a default, so it runs fine with no config file at all:
"autorandr -c" two seconds after the last event, skipped under the common
desktops that reconfigure displays on their own. See example-config.toml
for the config file structure.

NOTE: By default XDG_CONFIG_HOME is set to ~/.config on most Linux systems.

NOTE: Udev can emit several events for a single physical plug/unplug, and
some hardware re-announces connectors at odd times. The debounce window
absorbs this, but it is still best to keep your command idempotent.
*/
package main
