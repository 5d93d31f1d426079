package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/hoist/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hoist",
	Short: "hoist simulates a supervised two-axis positioning rig",
	Long: `hoist runs a two-axis positioning rig as a fleet of processes: two axis
controllers, a world simulator and two operator consoles, watched by a
supervisor that tears the fleet down on any crash or a minute of inactivity.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory of the log artifacts")
	rootCmd.PersistentFlags().String("fifo-dir", "", "Directory of the named channels")
}

// loadConfig layers the command line over the configuration file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return config.Config{}, "", err
		}
		path = abs
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("fifo-dir") {
		cfg.FIFODir, _ = flags.GetString("fifo-dir")
	}
	for name, target := range map[string]*string{
		"liveness":     &cfg.Supervisor.Liveness,
		"policy":       &cfg.Supervisor.Policy,
		"metrics-addr": &cfg.Supervisor.MetricsAddr,
		"fusion":       &cfg.World.Policy,
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*target = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// mustLoadConfig is loadConfig for commands that exit on failure.
func mustLoadConfig(cmd *cobra.Command) (config.Config, string) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, path
}
