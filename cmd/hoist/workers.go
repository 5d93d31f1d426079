package main

import (
	"fmt"
	"os"

	"github.com/aretw0/hoist/internal/cli"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/spf13/cobra"
)

var axisCmd = &cobra.Command{
	Use:   "axis",
	Short: "Run one axis controller",
	Long:  `Runs the x or z axis controller. Normally spawned by the supervisor.`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("axis")
		var role domain.Role
		switch name {
		case "x":
			role = domain.RoleAxisX
		case "z":
			role = domain.RoleAxisZ
		default:
			fmt.Printf("Error: --axis must be x or z, got %q\n", name)
			os.Exit(domain.ExitSystemCall)
		}

		cfg, _ := mustLoadConfig(cmd)
		logger := cli.NewLogger(cfg.Debug, role)
		sigCtx := cli.NewSignalContext(cmd.Context())
		err := cli.RunAxis(sigCtx, cfg, role, logger)
		sigCtx.Cancel()
		os.Exit(cli.ExitCode(logger, role, err))
	},
}

var worldCmd = &cobra.Command{
	Use:   "world",
	Short: "Run the world simulator",
	Long:  `Fuses both axes' telemetry into noisy telegrams. Normally spawned by the supervisor.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := mustLoadConfig(cmd)
		logger := cli.NewLogger(cfg.Debug, domain.RoleWorld)
		sigCtx := cli.NewSignalContext(cmd.Context())
		err := cli.RunWorld(sigCtx, cfg, logger)
		sigCtx.Cancel()
		os.Exit(cli.ExitCode(logger, domain.RoleWorld, err))
	},
}

func init() {
	rootCmd.AddCommand(axisCmd)
	rootCmd.AddCommand(worldCmd)

	axisCmd.Flags().String("axis", "", "Axis to control: x or z")
	_ = axisCmd.MarkFlagRequired("axis")
	worldCmd.Flags().String("fusion", "", "Fusion policy: pick-one or drain-both")
}
