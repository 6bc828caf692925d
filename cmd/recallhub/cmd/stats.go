package cmd

import (
	"github.com/spf13/cobra"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	params := &struct {
		User   string
		Output string
	}{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count saved memories by content type",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.service.Stats(cmd.Context(), params.User)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), params.Output, stats)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.User, "user", "", "owner, DEFAULT_OWNER when empty")
	f.StringVarP(&params.Output, "output", "o", outputYAML, "output format: json or yaml")

	return cmd
}
