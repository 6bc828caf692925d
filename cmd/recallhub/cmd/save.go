package cmd

import (
	"os"
	"strings"

	"github.com/habiliai/recallhub/entity"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSaveCmd(flags *rootFlags) *cobra.Command {
	params := &struct {
		URL    string
		Title  string
		File   string
		User   string
		Output string
	}{}
	cmd := &cobra.Command{
		Use:   "save [text...]",
		Short: "Save text, a file or a web page",
		Example: `  recallhub save "Remember to renew the passport"
  recallhub save --url https://www.youtube.com/watch?v=abc123
  recallhub save --file notes.md --title "Meeting notes"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if params.File != "" {
				b, err := os.ReadFile(params.File)
				if err != nil {
					return errors.Wrapf(err, "failed to read %s", params.File)
				}
				content = string(b)
			}
			if strings.TrimSpace(content) == "" && params.URL == "" {
				return errors.New("nothing to save, give text, --file or --url")
			}

			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			var saved *entity.SaveResult
			if strings.TrimSpace(content) == "" {
				saved, err = a.service.SaveURL(cmd.Context(), entity.URLSave{
					Owner: params.User,
					URL:   params.URL,
					Title: params.Title,
				})
			} else {
				saved, err = a.service.Save(cmd.Context(), entity.MemoryCreate{
					Owner:   params.User,
					Content: content,
					URL:     params.URL,
					Title:   params.Title,
				})
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), params.Output, saved)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.URL, "url", "", "source url; fetched and saved when no text is given")
	f.StringVar(&params.Title, "title", "", "title, generated when empty")
	f.StringVarP(&params.File, "file", "f", "", "read the content from a file")
	f.StringVar(&params.User, "user", "", "owner of the memory, DEFAULT_OWNER when empty")
	f.StringVarP(&params.Output, "output", "o", outputJSON, "output format: json or yaml")

	return cmd
}
