package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "playbot",
		Short: "playbot is a Telegram bot with games, quizzes and small utilities",
		Long: `playbot answers commands, runs number-guessing games and trivia quizzes,
evaluates arithmetic, and delivers delayed reminders over Telegram.

Configuration is read from an optional YAML file and the environment;
a .env file in the working directory is loaded first.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
