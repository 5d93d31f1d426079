// Package axis implements the single-axis motion controller.
//
// A Controller waits up to one tick for a delta command, adjusts its integer
// velocity, integrates position within the axis bounds and emits the new
// position as telemetry. STOP and RESET arrive asynchronously through a
// SignalSource and are serviced by the control loop itself.
package axis
