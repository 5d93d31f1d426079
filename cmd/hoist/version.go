package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hoist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hoist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hoist version %s\n", strings.TrimSpace(hoist.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
