package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatPosition renders a single-axis telemetry payload.
func FormatPosition(pos float64) []byte {
	return []byte(strconv.FormatFloat(pos, 'f', 6, 64))
}

// ParsePosition decodes a single-axis telemetry payload.
func ParsePosition(payload []byte) (float64, error) {
	v, ok := parseFinite(strings.TrimSpace(string(payload)))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTelemetry, payload)
	}
	return v, nil
}

// parseFinite rejects NaN and infinities, which strconv accepts.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Telegram is the combined two-axis position produced by the world simulator.
type Telegram struct {
	X float64
	Z float64
}

// String renders the "x;z" wire form.
func (t Telegram) String() string {
	return fmt.Sprintf("%f;%f", t.X, t.Z)
}

// Encode returns the wire form as bytes.
func (t Telegram) Encode() []byte {
	return []byte(t.String())
}

// ParseTelegram decodes an "x;z" payload.
func ParseTelegram(payload []byte) (Telegram, error) {
	xs, zs, ok := strings.Cut(strings.TrimSpace(string(payload)), ";")
	if !ok {
		return Telegram{}, fmt.Errorf("%w: %q", ErrMalformedTelemetry, payload)
	}
	x, ok := parseFinite(xs)
	if !ok {
		return Telegram{}, fmt.Errorf("%w: %q", ErrMalformedTelemetry, payload)
	}
	z, ok := parseFinite(zs)
	if !ok {
		return Telegram{}, fmt.Errorf("%w: %q", ErrMalformedTelemetry, payload)
	}
	return Telegram{X: x, Z: z}, nil
}
