package main

import (
	"fmt"
	"os"

	"github.com/aretw0/hoist/internal/cli"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Run the command console",
	Long:  `Turns key presses into velocity commands for the x and z axes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := mustLoadConfig(cmd)
		logger := cli.NewLogger(cfg.Debug, domain.RoleCommand)
		sigCtx := cli.NewSignalContext(cmd.Context())
		err := cli.RunCommandConsole(sigCtx, cfg, logger)
		sigCtx.Cancel()
		os.Exit(cli.ExitCode(logger, domain.RoleCommand, err))
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <x-pid> <z-pid>",
	Short: "Run the inspection console",
	Long:  `Shows the end-effector position and sends STOP or RESET to both axis controllers.`,
	Run: func(cmd *cobra.Command, args []string) {
		xPid, zPid, err := cli.ParsePids(args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(domain.ExitSystemCall)
		}
		cfg, _ := mustLoadConfig(cmd)
		logger := cli.NewLogger(cfg.Debug, domain.RoleInspection)
		sigCtx := cli.NewSignalContext(cmd.Context())
		err = cli.RunInspectionConsole(sigCtx, cfg, xPid, zPid, logger)
		sigCtx.Cancel()
		os.Exit(cli.ExitCode(logger, domain.RoleInspection, err))
	},
}

func init() {
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(inspectCmd)
}
