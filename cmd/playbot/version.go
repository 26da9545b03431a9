package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/playbot/core/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "playbot "+buildinfo.String())
			return err
		},
	}
}
