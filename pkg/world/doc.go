// Package world fuses the two axes' position telemetry into noisy combined
// telegrams, the way real position sensors would report them.
package world
