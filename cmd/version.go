package cmd

import (
	"github.com/spf13/cobra"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/utils"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version number.",
		Run: func(cmd *cobra.Command, args []string) {
			version := utils.GetVersion()

			println("landomo", version.Version)
			println("- go/version:", version.GoVersion)
		},
	}
}
