// Package console implements the two operator front ends of the rig: the
// command console, which turns key presses into velocity commands, and the
// inspection console, which renders the end-effector position and sends
// STOP/RESET to the axis controllers.
//
// Both read single key presses and keep running once their input is closed,
// so a fleet started without a terminal stays up.
package console
