/*
Package hoist simulates a two-axis motorized positioning rig as a fleet of
cooperating processes.

# Fleet

A supervisor re-executes the hoist binary once per worker role:

  - command: operator console writing velocity commands for the x and z axes
  - axis-x, axis-z: controllers integrating velocity into a clamped position
  - world: sensor simulator fusing both axes into a noisy "x;z" telegram
  - inspection: operator console showing the telegram and sending STOP/RESET

Workers talk over named FIFOs. STOP and RESET reach the axis controllers as
SIGUSR1 and SIGUSR2. Every worker appends to its own log artifact, and the
supervisor reads the artifacts' freshness as the fleet heartbeat: a minute
without any write shuts the fleet down cleanly, while any worker exiting
tears the whole fleet down as a crash.

# Usage

	hoist supervise --config rig.yaml
	hoist axis --axis z
	hoist inspect 4242 4243

The packages under pkg/ hold the reusable parts: pkg/axis and pkg/world for
the control loops, pkg/supervisor for the watchdog, and pkg/channel and
pkg/control for the FIFO and signal substrate.
*/
package hoist
