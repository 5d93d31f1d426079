package config

import (
	"path/filepath"

	"github.com/aretw0/hoist/pkg/domain"
)

// Artifact returns the log artifact path of a role.
func (c Config) Artifact(role domain.Role) string {
	return filepath.Join(c.LogDir, string(role)+".log")
}

// Artifacts maps every supervised worker to its artifact.
func (c Config) Artifacts() map[domain.Role]string {
	out := make(map[domain.Role]string, len(domain.Workers))
	for _, role := range domain.Workers {
		out[role] = c.Artifact(role)
	}
	return out
}

// CommandFIFO carries delta commands from the command console to an axis.
func (c Config) CommandFIFO(role domain.Role) string {
	return filepath.Join(c.FIFODir, "cmd-"+axisName(role))
}

// TelemetryFIFO carries an axis' positions to the world simulator.
func (c Config) TelemetryFIFO(role domain.Role) string {
	return filepath.Join(c.FIFODir, axisName(role)+"-world")
}

// TelegramFIFO carries combined telegrams to the inspection console.
func (c Config) TelegramFIFO() string {
	return filepath.Join(c.FIFODir, "world-inspection")
}

// FIFOs lists every channel of the rig.
func (c Config) FIFOs() []string {
	return []string{
		c.CommandFIFO(domain.RoleAxisX),
		c.CommandFIFO(domain.RoleAxisZ),
		c.TelemetryFIFO(domain.RoleAxisX),
		c.TelemetryFIFO(domain.RoleAxisZ),
		c.TelegramFIFO(),
	}
}

func axisName(role domain.Role) string {
	if role == domain.RoleAxisZ {
		return "z"
	}
	return "x"
}
