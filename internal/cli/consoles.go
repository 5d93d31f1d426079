package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/aretw0/hoist/internal/config"
	"github.com/aretw0/hoist/internal/console"
	"github.com/aretw0/hoist/internal/presentation/tui"
	"github.com/aretw0/hoist/pkg/channel"
	"github.com/aretw0/hoist/pkg/control"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/muesli/termenv"
)

// RunCommandConsole runs the command console on the process terminal.
func RunCommandConsole(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	journal, closeJournal, err := openJournal(cfg, domain.RoleCommand, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	tui.PrintHelp(tui.CommandHelp)

	x, err := channel.OpenWriter(cfg.CommandFIFO(domain.RoleAxisX))
	if err != nil {
		return err
	}
	defer x.Close()
	z, err := channel.OpenWriter(cfg.CommandFIFO(domain.RoleAxisZ))
	if err != nil {
		return err
	}
	defer z.Close()

	c := console.NewCommand(x, z, journal, os.Stdout)
	restore, raw := console.RawTerminal(os.Stdin)
	defer restore()
	if raw {
		c.RawOutput()
	}
	return c.Run(ctx, console.Keys(ctx, os.Stdin))
}

// ParsePids decodes the inspection console's "<x-pid> <z-pid>" arguments.
func ParsePids(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <x-pid> <z-pid>, got %d arguments", len(args))
	}
	var pids [2]int
	for i, a := range args {
		pid, err := strconv.Atoi(a)
		if err != nil || pid <= 0 {
			return 0, 0, fmt.Errorf("invalid controller pid %q", a)
		}
		pids[i] = pid
	}
	return pids[0], pids[1], nil
}

// RunInspectionConsole runs the inspection console for the given controllers.
func RunInspectionConsole(ctx context.Context, cfg config.Config, xPid, zPid int, logger *slog.Logger) error {
	journal, closeJournal, err := openJournal(cfg, domain.RoleInspection, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	tui.PrintHelp(tui.InspectionHelp)

	telegrams, err := channel.OpenReader(cfg.TelegramFIFO())
	if err != nil {
		return err
	}
	defer telegrams.Close()

	restore, _ := console.RawTerminal(os.Stdin)
	defer restore()

	i := console.NewInspection(telegrams, xPid, zPid, control.Send, journal, os.Stdout,
		console.WithBounds(cfg.Axis.X, cfg.Axis.Z),
		console.WithProfile(termenv.ColorProfile()),
		console.WithLogger(logger),
	)
	err = i.Run(ctx, console.Keys(ctx, os.Stdin))
	fmt.Print("\r\n")
	return err
}
