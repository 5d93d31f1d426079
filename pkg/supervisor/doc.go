/*
Package supervisor spawns the rig's worker processes and watches over them.

A Supervisor creates every log artifact, starts the workers in order and then
runs a watchdog every Period. Each check samples the artifacts' last-write
times through a Probe, feeds them to an inactivity Tracker and polls every
child for an unexpected exit. Any terminal condition (an exited child, an
unreadable artifact, prolonged inactivity or an operator interrupt) kills the
whole fleet before the outcome is reported.

The lifecycle is a looplab/fsm state machine:

	starting -> running -> clean-shutdown | crash-shutdown | local-error
*/
package supervisor
