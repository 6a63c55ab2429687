package main

// Linux input event types and codes (from <linux/input.h>)
const (
	EV_SYN = 0x00
	EV_REL = 0x02

	// Rotary encoder relative axis codes
	REL_DIAL  = 0x07
	REL_WHEEL = 0x08
	REL_MISC  = 0x09
)

// Daemon defaults
const (
	defaultInputDevice = "/dev/input/by-path/platform-rotary@0-event"
	defaultAxis        = "dial"
	defaultUpdateHz    = 60
	defaultAssetDir    = "assets"

	defaultIPCSocket = "/tmp/hexdial.sock"
	defaultWSPort    = 3002
	defaultWSPath    = "/state"

	defaultIdleColorHex      = "#00ffff"
	defaultHighlightColorHex = "#ffff00"

	// Rotary encoder velocity detection defaults
	defaultRotaryVelocityWindowMS   = 200 // Time window for velocity detection (ms)
	defaultRotaryVelocityThreshold  = 4   // Steps in window to trigger fast-spin mode
	defaultRotaryVelocityMultiplier = 2.0 // Multiplier for "fast spinning"

	// Snapshot request round-trip limit for IPC and WS clients.
	snapshotTimeoutMS = 1000
)
