package cmd

import (
	"strings"

	"github.com/habiliai/recallhub/entity"
	"github.com/spf13/cobra"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	params := &struct {
		Natural bool
		Limit   int
		User    string
		Type    string
		Output  string
	}{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search saved memories",
		Example: `  recallhub search "vector databases"
  recallhub search --nl "black leather shoes under $300"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			var results []entity.SearchResult
			if params.Natural {
				results, err = a.service.SearchNL(cmd.Context(), query, params.User, params.Limit)
			} else {
				var filters map[string]any
				if params.Type != "" {
					filters = map[string]any{entity.KeyContentType: params.Type}
				}
				results, err = a.service.Search(cmd.Context(), query, params.User, params.Limit, filters)
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), params.Output, results)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&params.Natural, "nl", false, "read content type, date, price and author filters from the query")
	f.IntVarP(&params.Limit, "limit", "n", 0, "maximum number of results, SEARCH_DEFAULT_LIMIT when 0")
	f.StringVar(&params.User, "user", "", "owner to search, DEFAULT_OWNER when empty")
	f.StringVar(&params.Type, "type", "", "restrict a semantic search to a content type")
	f.StringVarP(&params.Output, "output", "o", outputJSON, "output format: json or yaml")

	return cmd
}
