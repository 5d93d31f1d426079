package process

import (
	"fmt"

	"github.com/aretw0/hoist/pkg/domain"
)

// Launch describes how a worker role is started.
type Launch struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args" json:"args"`
	Env     map[string]string `yaml:"env" json:"env"`
}

// ForFleet returns the launch table that re-executes exe once per worker role.
// Console roles run inside terminal when it is set (e.g. ["konsole", "-e"]).
// global is inserted before each subcommand, typically the --config flag.
func ForFleet(exe string, terminal []string, global ...string) map[domain.Role]Launch {
	sub := func(args ...string) []string {
		return append(append([]string{}, global...), args...)
	}
	console := func(args ...string) Launch {
		if len(terminal) == 0 {
			return Launch{Command: exe, Args: sub(args...)}
		}
		wrapped := append(append([]string{}, terminal[1:]...), exe)
		return Launch{Command: terminal[0], Args: append(wrapped, sub(args...)...)}
	}

	return map[domain.Role]Launch{
		domain.RoleCommand:    console("command"),
		domain.RoleAxisX:      {Command: exe, Args: sub("axis", "--axis", "x")},
		domain.RoleAxisZ:      {Command: exe, Args: sub("axis", "--axis", "z")},
		domain.RoleWorld:      {Command: exe, Args: sub("world")},
		domain.RoleInspection: console("inspect"),
	}
}

func (l Launch) String() string {
	return fmt.Sprintf("%s %v", l.Command, l.Args)
}
