package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justchokingaround/enjoi/internal/backend/api"
	"github.com/justchokingaround/enjoi/internal/clipboard"
	"github.com/justchokingaround/enjoi/internal/config"
	"github.com/justchokingaround/enjoi/internal/query"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui"
	"github.com/justchokingaround/enjoi/internal/tui/common"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	startPath string
	noColor   bool
	debugMode bool

	// Global config and logger
	cfg    *config.Config
	v      *viper.Viper
	logger *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "enjoi",
	Short: "Search anime and pick a stream from the terminal",
	Long: `enjoi is a terminal front end for an anime lookup service.

Type to search, open a series to see its details, then step through its
episodes. The provider you pick on one episode stays selected on the next.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		// Skip config loading for config init command
		if cmd.Name() == "init" && cmd.Parent().Name() == "config" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		var err error
		cfg, v, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		// one-shot commands log to the terminal; the TUI owns it and logs to a file
		logger, err = config.InitLogger(&cfg.Logging, cmd != cmd.Root() && logLevel != "")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := route.ForSearch()
		if startPath != "" {
			r, err := route.Parse(startPath)
			if err != nil {
				return err
			}
			start = r
		}

		logger.Info("enjoi starting", "version", version, "route", start.String(), "backend", cfg.API.BaseURL)

		app := tui.NewApp(tui.Options{
			Backend:   api.NewClient(cfg, logger),
			Clipboard: clipboard.NewService(cfg.Advanced.Clipboard.Command, logger),
			Search:    searchSettings(cfg),
			Timeout:   cfg.API.Timeout,
			Start:     start,
			Logger:    logger,
		})
		p := tui.NewProgram(cmd.Context(), app)

		watchConfig(v, func(next *config.Config) {
			p.Send(common.SearchSettingsMsg{Settings: searchSettings(next)})
		})

		return tui.Run(p)
	},
}

func searchSettings(c *config.Config) query.Settings {
	return query.Settings{MinLength: c.Search.MinLength, Window: c.Search.Debounce}
}

// watchConfig reloads the config file on change and hands valid results to apply
func watchConfig(v *viper.Viper, apply func(*config.Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", "name", e.Name, "op", e.Op.String())

		next := config.DefaultConfig()
		if err := v.Unmarshal(next); err != nil {
			logger.Error("failed to reload config", "error", err)
			return
		}
		if err := next.Validate(); err != nil {
			logger.Error("ignoring invalid config", "error", err)
			return
		}

		apply(next)
		logger.Info("search settings reloaded",
			"min_length", next.Search.MinLength,
			"debounce", next.Search.Debounce)
	})
	v.WatchConfig()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/enjoi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode (verbose HTTP logging)")
	rootCmd.Flags().StringVar(&startPath, "path", "", "start at a route such as /anime/naruto or /anime/naruto/5")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(episodeCmd)
}
