package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/hoist/internal/cli"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/spf13/cobra"
)

var superviseCmd = &cobra.Command{
	Use:   "supervise",
	Short: "Start the fleet and supervise it",
	Long: `Spawns every worker of the rig, watches their log artifacts and exit
status, and shuts the fleet down on a crash, on inactivity or on Ctrl-C.
Exits 0 on a clean shutdown, 2 on a crash and 1 on a local error.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, path := mustLoadConfig(cmd)
		quiet, _ := cmd.Flags().GetBool("quiet")

		exe, err := os.Executable()
		if err != nil {
			fmt.Printf("Error locating the hoist binary: %v\n", err)
			os.Exit(1)
		}

		logger := cli.NewLogger(cfg.Debug, domain.RoleSupervisor)
		sigCtx := cli.NewSignalContext(context.Background())

		report := cli.RunSupervisor(sigCtx, cfg, cli.SuperviseOptions{
			Executable: exe,
			ConfigPath: path,
			Debug:      cfg.Debug,
			Quiet:      quiet,
		}, logger)
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("supervisor interrupted", "signal", sig)
		}
		sigCtx.Cancel()
		os.Exit(report.Outcome.ExitCode())
	},
}

func init() {
	rootCmd.AddCommand(superviseCmd)

	superviseCmd.Flags().String("liveness", "", "Liveness source: artifact, watch or redis")
	superviseCmd.Flags().String("policy", "", "Freshness policy: any or last-artifact")
	superviseCmd.Flags().String("metrics-addr", "", "Serve /metrics, /healthz and /fleet on this address")
	superviseCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner and outcome")

	// 'supervise' is the default command.
	rootCmd.Run = superviseCmd.Run
	rootCmd.Flags().AddFlagSet(superviseCmd.Flags())
}
