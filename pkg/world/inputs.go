package world

import (
	"time"

	"github.com/aretw0/hoist/pkg/channel"
)

// Axis indexes the two telemetry inputs.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "z"
}

// Inputs is the pair of axis telemetry channels.
type Inputs interface {
	// Wait reports, per axis, whether a message is ready.
	Wait(timeout time.Duration) ([2]bool, error)
	Next(axis Axis) ([]byte, bool)
}

type channelInputs struct {
	readers [2]*channel.Reader
}

// Channels multiplexes two channel readers.
func Channels(x, z *channel.Reader) Inputs {
	return &channelInputs{readers: [2]*channel.Reader{x, z}}
}

func (c *channelInputs) Wait(timeout time.Duration) ([2]bool, error) {
	var out [2]bool
	ready, err := channel.Wait(timeout, c.readers[0], c.readers[1])
	if err != nil {
		return out, err
	}
	copy(out[:], ready)
	return out, nil
}

func (c *channelInputs) Next(axis Axis) ([]byte, bool) {
	return c.readers[axis].Next()
}
