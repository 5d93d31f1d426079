package domain

import (
	"fmt"
	"strings"
)

// VelocityCommand is a discrete delta instruction for an axis controller.
type VelocityCommand int

const (
	CommandStop      VelocityCommand = 0
	CommandIncrement VelocityCommand = 1
	CommandDecrement VelocityCommand = 2
)

// String returns the human readable name used by the consoles.
func (c VelocityCommand) String() string {
	switch c {
	case CommandStop:
		return "stop"
	case CommandIncrement:
		return "increment"
	case CommandDecrement:
		return "decrement"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Delta returns the velocity change the command asks for. Stop has no delta.
func (c VelocityCommand) Delta() int {
	switch c {
	case CommandIncrement:
		return 1
	case CommandDecrement:
		return -1
	}
	return 0
}

// Encode renders the wire form of the command.
func (c VelocityCommand) Encode() []byte {
	return []byte(fmt.Sprintf("%d", int(c)))
}

// ParseCommand decodes a wire payload into a command.
func ParseCommand(payload []byte) (VelocityCommand, error) {
	switch strings.TrimSpace(string(payload)) {
	case "0":
		return CommandStop, nil
	case "1":
		return CommandIncrement, nil
	case "2":
		return CommandDecrement, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrMalformedCommand, payload)
}
