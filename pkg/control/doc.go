/*
Package control carries the out-of-band STOP and RESET signals between the
inspection console and the axis controllers.

Delivery is a message-passing interrupt: the OS handler only enqueues, and the
control loop drains the queue at well-defined checkpoints, so axis state is
never mutated from more than one goroutine.
*/
package control
