package cmd

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFile string
	version string
}

func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{version: version}
	cmd := &cobra.Command{
		Use:           "recallhub",
		Short:         "Personal content memory: save anything, find it again in plain language",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(
		newServeCmd(flags),
		newSaveCmd(flags),
		newSearchCmd(flags),
		newStatsCmd(flags),
		newMCPCmd(flags),
	)

	return cmd
}
