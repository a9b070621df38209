package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/corpsite/cmd/corpsite/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "corpsite",
		Short:        "Operations tools for the corpsite API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
