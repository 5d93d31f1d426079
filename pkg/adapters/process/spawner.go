package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/supervisor"
	"golang.org/x/sys/unix"
)

// EnvRole is set in every worker's environment.
const EnvRole = "HOIST_ROLE"

// Spawner starts fleet workers from a per-role launch table.
// Only registered roles can be started.
type Spawner struct {
	registry map[domain.Role]Launch
	baseDir  string
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// SpawnerOption configures the spawner.
type SpawnerOption func(*Spawner)

// WithRegistry populates the launch table.
func WithRegistry(launches map[domain.Role]Launch) SpawnerOption {
	return func(s *Spawner) {
		for role, l := range launches {
			s.registry[role] = l
		}
	}
}

// WithBaseDir sets the working directory of spawned workers.
func WithBaseDir(dir string) SpawnerOption {
	return func(s *Spawner) {
		s.baseDir = dir
	}
}

// WithOutput forwards the workers' standard streams.
func WithOutput(stdout, stderr io.Writer) SpawnerOption {
	return func(s *Spawner) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) SpawnerOption {
	return func(s *Spawner) {
		s.logger = logger
	}
}

// NewSpawner creates a spawner.
func NewSpawner(opts ...SpawnerOption) *Spawner {
	s := &Spawner{
		registry: make(map[domain.Role]Launch),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a role to the launch table.
func (s *Spawner) Register(role domain.Role, command string, args ...string) {
	s.registry[role] = Launch{Command: command, Args: args}
}

// Spawn starts the role's process in its own process group. args are appended
// to the registered arguments.
//
// The process is not bound to ctx: workers outlive cancellation until the
// supervisor kills them explicitly.
func (s *Spawner) Spawn(ctx context.Context, role domain.Role, args ...string) (supervisor.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, ok := s.registry[role]
	if !ok {
		return nil, fmt.Errorf("no launch registered for %s", role)
	}

	cmd := exec.Command(l.Command, append(append([]string{}, l.Args...), args...)...)
	cmd.Dir = s.baseDir
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	env := []string{EnvRole + "=" + string(role)}
	for k, v := range l.Env {
		env = append(env, fmt.Sprintf("%s=%s", strings.ToUpper(k), v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	if err := cmd.Start(); err != nil {
		return nil, domain.SysErr("spawn "+string(role), err)
	}
	s.logger.Debug("process started", "role", role, "pid", cmd.Process.Pid, "command", l.Command)

	c := &Child{cmd: cmd, done: make(chan struct{})}
	go c.wait()
	return c, nil
}

// Child is a spawned worker process. Its exit is collected by a dedicated
// goroutine so the supervisor can poll it without blocking.
type Child struct {
	cmd    *exec.Cmd
	done   chan struct{}
	status domain.ExitStatus
}

func (c *Child) wait() {
	_ = c.cmd.Wait()
	st := c.cmd.ProcessState
	if ws, ok := st.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		c.status = domain.ClassifyExit(int(ws.Signal()), true)
	} else {
		c.status = domain.ClassifyExit(st.ExitCode(), false)
	}
	close(c.done)
}

// Pid returns the process id, which is also its process group id.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Exited reports the exit status once the process was reaped.
func (c *Child) Exited() (domain.ExitStatus, bool) {
	select {
	case <-c.done:
		return c.status, true
	default:
		return domain.ExitStatus{}, false
	}
}

// Kill sends SIGKILL to the whole process group. A group that is already gone
// is not an error.
func (c *Child) Kill() error {
	err := unix.Kill(-c.Pid(), unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return domain.SysErr("kill", err)
}

// Reap waits up to timeout for the process to be collected.
func (c *Child) Reap(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-c.done:
		return true
	case <-t.C:
		return false
	}
}
