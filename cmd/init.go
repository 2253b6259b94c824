package cmd

import (
	"log"

	"github.com/josephlewis42/watchsh/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the shell configuration in the current directory or --config.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(configDir(), logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
