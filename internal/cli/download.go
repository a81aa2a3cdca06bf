package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/handiism/otokonime/internal/download"
	"github.com/handiism/otokonime/internal/model"
	"github.com/spf13/cobra"
)

type downloadFlags struct {
	quality  string
	output   string
	playlist bool
	verbose  bool
	dryRun   bool
}

func (f *downloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.quality, "quality", "q", "", "Resolution to download, e.g. 720p (default: preferred_resolution)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory (overrides downloads_path)")
	cmd.Flags().BoolVar(&f.playlist, "playlist", false, "Create a playlist file")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Show verbose output")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Resolve links without downloading")
}

func newDownloadCmd(app *App) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download <episode-slug>",
		Short: "Download an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, app, &flags, func(ctx context.Context, m *download.Manager) (*model.Release, error) {
				return m.AddEpisode(ctx, args[0], flags.quality)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newBatchCmd(app *App) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "batch <batch-slug>",
		Short: "Download the batch of a finished title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, app, &flags, func(ctx context.Context, m *download.Manager) (*model.Release, error) {
				return m.AddBatch(ctx, args[0], flags.quality)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func runDownload(cmd *cobra.Command, app *App, flags *downloadFlags, queue func(context.Context, *download.Manager) (*model.Release, error)) error {
	settings := *app.settings
	if flags.output != "" {
		settings.DownloadsPath = flags.output + "/{title}"
	}
	if flags.playlist {
		settings.CreatePlaylist = true
	}

	out := cmd.OutOrStdout()
	printer := &progressPrinter{w: out, verbose: flags.verbose}
	manager := download.NewManager(&settings, app.catalog(), app.log.Named("download"), printer.print)

	ctx := cmd.Context()
	r, err := queue(ctx, manager)
	if err != nil {
		return err
	}
	for _, f := range r.Files {
		printer.printf("  %s\n  <- %s\n", f.Path, f.URL)
	}

	if flags.dryRun {
		printer.printf("\n[Dry run - not downloading]\n")
		return nil
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			printer.printf("\nDownload cancelled.\n")
		}
		return err
	}

	received, files, total := manager.GetProgress()
	printer.printf("\nComplete! Downloaded %d/%d files (%.2f MB)\n", files, total, float64(received)/1024/1024)
	if files < total {
		return fmt.Errorf("%d of %d files failed", total-files, total)
	}
	return nil
}

// progressPrinter writes progress events from the download goroutines.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func (p *progressPrinter) print(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !p.verbose {
		return
	}

	prefix := "   "
	switch event.Level {
	case download.LevelError:
		prefix = "✗  "
	case download.LevelWarning:
		prefix = "!  "
	case download.LevelSuccess:
		prefix = "✓  "
	case download.LevelInfo:
		prefix = "›  "
	}
	p.printf("%s%s\n", prefix, event.Message)
}

func (p *progressPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}
