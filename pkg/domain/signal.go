package domain

// ControlSignal is an out-of-band instruction addressed to an axis controller process.
type ControlSignal int

const (
	SignalStop ControlSignal = iota + 1
	SignalReset
)

func (s ControlSignal) String() string {
	switch s {
	case SignalStop:
		return "STOP"
	case SignalReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}
