package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>...",
		Short: "Search the catalog by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			results, err := app.catalog().Search(cmd.Context(), keyword)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				_, _ = fmt.Fprintf(out, "No results for %q.\n", keyword)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SLUG\tTITLE\tEPISODES\tRATING")
			for _, a := range results {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Slug, a.Title, a.Badge(), a.Rating)
			}
			return tw.Flush()
		},
	}
}
