package console

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/hoist/pkg/domain"
)

// Sender is the sending end of a command channel.
type Sender interface {
	Send(msg []byte) error
}

// Binding maps a key to a velocity command for one axis.
type Binding struct {
	Key     byte
	Axis    domain.Role
	Command domain.VelocityCommand
	Name    string
}

// Bindings is the command console keymap.
var Bindings = []Binding{
	{Key: 'a', Axis: domain.RoleAxisX, Command: domain.CommandDecrement, Name: "Vx--"},
	{Key: 's', Axis: domain.RoleAxisX, Command: domain.CommandStop, Name: "Vx stop"},
	{Key: 'd', Axis: domain.RoleAxisX, Command: domain.CommandIncrement, Name: "Vx++"},
	{Key: 'w', Axis: domain.RoleAxisZ, Command: domain.CommandIncrement, Name: "Vz++"},
	{Key: 'x', Axis: domain.RoleAxisZ, Command: domain.CommandDecrement, Name: "Vz--"},
	{Key: 'e', Axis: domain.RoleAxisZ, Command: domain.CommandStop, Name: "Vz stop"},
}

// Command forwards key presses to the axis command channels.
type Command struct {
	targets map[domain.Role]Sender
	journal Journal
	out     io.Writer
	newline string
}

// NewCommand creates a command console writing to the x and z command channels.
// Feedback is printed to out.
func NewCommand(x, z Sender, journal Journal, out io.Writer) *Command {
	return &Command{
		targets: map[domain.Role]Sender{domain.RoleAxisX: x, domain.RoleAxisZ: z},
		journal: journal,
		out:     out,
		newline: "\n",
	}
}

// RawOutput makes feedback lines end in CRLF, as a raw terminal needs.
func (c *Command) RawOutput() {
	c.newline = "\r\n"
}

// Run handles keys until ctx is done, Ctrl-C is pressed or an action fails.
// Closing keys leaves the console idle until ctx is done.
func (c *Command) Run(ctx context.Context, keys <-chan byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if k == keyInterrupt {
				return nil
			}
			if err := c.Press(k); err != nil {
				return err
			}
		}
	}
}

// Press handles one key. Unbound keys are ignored.
func (c *Command) Press(key byte) error {
	for _, b := range Bindings {
		if b.Key != key {
			continue
		}
		if err := c.journal.Event(CategoryButton, b.Name); err != nil {
			return err
		}
		if err := c.targets[b.Axis].Send(b.Command.Encode()); err != nil {
			_ = c.journal.Event(CategoryError, err.Error())
			return err
		}
		fmt.Fprintf(c.out, "%s%s", b.Name, c.newline)
		return nil
	}
	return nil
}
