package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/handiism/otokonime/internal/model"
	"github.com/handiism/otokonime/internal/mylist"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMyListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mylist",
		Aliases: []string{"list"},
		Short:   "Manage the personal watch list",
	}
	cmd.AddCommand(newMyListLsCmd(app))
	cmd.AddCommand(newMyListAddCmd(app))
	cmd.AddCommand(newMyListRmCmd(app))
	cmd.AddCommand(newMyListExportCmd(app))
	return cmd
}

func newMyListLsCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List titles, most recently added first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd, app, status)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Your list is empty.")
				return nil
			}
			return writeItems(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only show titles with this status ("+statusNames()+")")
	return cmd
}

func newMyListAddCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a title to the list, or move it to another status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseListStatus(status)
			if err != nil {
				return err
			}

			d, err := app.catalog().Anime(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			store := app.openStore()
			defer store.Close()
			if err := store.Upsert(cmd.Context(), d, st); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", d.Title, st.Label())
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(model.StatusPlanToWatch), "List status ("+statusNames()+")")
	return cmd
}

func newMyListRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <slug>",
		Aliases: []string{"remove"},
		Short:   "Remove a title from the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := app.openStore()
			defer store.Close()

			slug := args[0]
			item, err := store.Get(cmd.Context(), slug)
			if err != nil {
				return err
			}
			if item == nil {
				return errNotInList(slug)
			}
			if err := store.Remove(cmd.Context(), slug); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from My List\n", item.Title)
			return nil
		},
	}
}

func newMyListExportCmd(app *App) *cobra.Command {
	var (
		format string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list as JSON or YAML to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return errUnsupportedFormat(format)
			}
			items, err := loadItems(cmd, app, status)
			if err != nil {
				return err
			}
			if items == nil {
				items = []model.ListItem{}
			}

			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(items); err != nil {
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	cmd.Flags().StringVar(&status, "status", "", "Only export titles with this status")
	return cmd
}

// loadItems reads the list through a Cache so the order matches the TUI.
func loadItems(cmd *cobra.Command, app *App, status string) ([]model.ListItem, error) {
	store := app.openStore()
	defer store.Close()

	cache := mylist.NewCache(store)
	if err := cache.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	if status == "" {
		return cache.Items(), nil
	}
	st, err := model.ParseListStatus(status)
	if err != nil {
		return nil, err
	}
	return cache.ByStatus(st), nil
}

func writeItems(w io.Writer, items []model.ListItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STATUS\tSLUG\tTITLE\tEPISODES\tADDED")
	for _, it := range items {
		eps := it.EpisodeCount
		if it.CurrentEpisode != "" {
			eps = "Ep " + model.EpisodeLabel(it.CurrentEpisode)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.Status.Label(), it.Slug, it.Title, eps, it.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func statusNames() string {
	all := model.ListStatuses()
	names := make([]string, len(all))
	for i, st := range all {
		names[i] = string(st)
	}
	return strings.Join(names, "|")
}
