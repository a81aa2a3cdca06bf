package cli

import (
	"os"
	"strings"
	"time"

	"github.com/handiism/otokonime/internal/catalog"
	"github.com/handiism/otokonime/internal/config"
	"github.com/handiism/otokonime/internal/logging"
	"github.com/handiism/otokonime/internal/mylist"
	"github.com/handiism/otokonime/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the global flags and the dependencies built from them.
type App struct {
	ConfigPath string
	DBPath     string
	APIURL     string
	LogLevel   string

	settings *config.Settings
	log      *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var open string

	cmd := &cobra.Command{
		Use:          "otokonime",
		Short:        "Browse anime and keep a personal watch list from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  otokonime

  # Open a title directly
  otokonime --open /anime/one-piece

  # Scriptable commands
  otokonime search frieren
  otokonime mylist add sousou-no-frieren --status watching
  otokonime mylist export --format yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app, open)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("OTOKONIME_CONFIG", ""), "Path to the settings file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("OTOKONIME_DB", ""), "Path to the list database (overrides db_path)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("OTOKONIME_API", ""), "Catalog API base URL (overrides api_base_url)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides log_level)")
	cmd.Flags().StringVar(&open, "open", "", "Location to open the TUI at, e.g. /anime/<slug>")

	cmd.AddCommand(newMyListCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newDownloadCmd(app))
	cmd.AddCommand(newBatchCmd(app))

	return cmd
}

// init loads the settings, applies the flag overrides and builds the
// logger.
func (app *App) init() error {
	path := app.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	if app.DBPath != "" {
		settings.DBPath = app.DBPath
	}
	if app.APIURL != "" {
		settings.APIBaseURL = app.APIURL
	}
	if app.LogLevel != "" {
		settings.LogLevel = app.LogLevel
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	log, err := logging.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		return err
	}
	app.settings = settings
	app.log = log
	app.log.Debug("settings loaded", zap.String("path", path), zap.String("api", settings.APIBaseURL), zap.String("db", settings.DBPath))
	return nil
}

func (app *App) catalog() *catalog.Client {
	return catalog.New(app.settings.APIBaseURL,
		catalog.WithLogger(app.log.Named("catalog")),
		catalog.WithTimeout(time.Duration(app.settings.HTTPTimeout)),
	)
}

func (app *App) openStore() *mylist.Store {
	return mylist.Open(app.settings.DBPath, mylist.WithLogger(app.log.Named("mylist")))
}

func runTUI(app *App, open string) error {
	store := app.openStore()
	defer store.Close()

	client := app.catalog()
	return tui.Run(tui.Options{
		Catalog:  client,
		Fetcher:  client,
		List:     mylist.NewCache(store),
		Settings: app.settings,
		Log:      app.log.Named("tui"),
		Start:    open,
	})
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}
