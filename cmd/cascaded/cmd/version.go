package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cascade-dex/cascade/app"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daemon version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(app.Version)
		},
	}
}
