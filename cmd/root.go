package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/zjrosen/folio/internal/app"
	"github.com/zjrosen/folio/internal/config"
	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/flags"
	"github.com/zjrosen/folio/internal/infrastructure/sqlite"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/remote"
	"github.com/zjrosen/folio/internal/resume"
	"github.com/zjrosen/folio/internal/source"
	"github.com/zjrosen/folio/internal/tracing"
	"github.com/zjrosen/folio/internal/ui/markdown"
	"github.com/zjrosen/folio/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".folio/config.yaml"

func userConfigPath() string {
	return filepath.Join(config.Dir(), "config.yaml")
}

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "folio [deck]",
	Short: "A terminal slide presenter",
	Long: `Present markdown slide decks in the terminal.

The deck is a markdown file with slides separated by "---", or a YAML
manifest listing slide files. Append "#N" to open at slide N.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/folio/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also FOLIO_DEBUG)")

	rootCmd.Flags().Bool("autoplay", false, "start with autoplay enabled")
	rootCmd.Flags().Duration("interval", 0, "default autoplay delay per slide")
	rootCmd.Flags().Int("start", -1, "slide to open at")
	rootCmd.Flags().String("remote", "", "serve the remote control on this address, e.g. :7007")
	rootCmd.Flags().Bool("no-watch", false, "disable live reload")
	rootCmd.Flags().Bool("no-resume", false, "do not reopen at the last viewed slide")

	_ = viper.BindPFlag("autoplay", rootCmd.Flags().Lookup("autoplay"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("autoplay", defaults.Autoplay)
	viper.SetDefault("interval", defaults.Interval)
	viper.SetDefault("resume", defaults.Resume)
	viper.SetDefault("input.wheel_threshold", defaults.Input.WheelThreshold)
	viper.SetDefault("input.wheel_cooldown", defaults.Input.WheelCooldown)
	viper.SetDefault("input.wheel_notch", defaults.Input.WheelNotch)
	viper.SetDefault("input.swipe_threshold", defaults.Input.SwipeThreshold)
	viper.SetDefault("input.touch_slop", defaults.Input.TouchSlop)
	viper.SetDefault("fit.padding", defaults.Fit.Padding)
	viper.SetDefault("tracker.tie_break", defaults.Tracker.TieBreak)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.show_chrome", defaults.UI.ShowChrome)
	viper.SetDefault("ui.show_notes", defaults.UI.ShowNotes)
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("store.enabled", defaults.Store.Enabled)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("remote.enabled", defaults.Remote.Enabled)
	viper.SetDefault("remote.addr", defaults.Remote.Addr)
	viper.SetDefault("remote.allow_all_origins", defaults.Remote.AllowAllOrigins)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .folio/config.yaml (current directory)
		// 2. ~/.config/folio/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.Dir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			userPath := userConfigPath()
			if writeErr := config.WriteDefaultConfig(userPath); writeErr == nil {
				viper.SetConfigFile(userPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging enables the debug log when asked for. The returned func
// closes the log file.
func initLogging() (func(), error) {
	if os.Getenv("FOLIO_DEBUG") == "" && !debugFlag {
		log.SetEnabled(false)
		return func() {}, nil
	}
	logPath := os.Getenv("FOLIO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "folio")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return cleanup, nil
}

// splitDeckArg separates a trailing "#N" from the deck argument. A '#'
// followed by anything else is part of the reference.
func splitDeckArg(arg string) (ref, fragment string) {
	i := strings.LastIndexByte(arg, '#')
	if i < 0 {
		return arg, ""
	}
	if _, ok := deck.ParseFragment(arg[i+1:]); !ok {
		return arg, ""
	}
	return arg[:i], arg[i+1:]
}

// applyFlags folds command line overrides into the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("interval") {
		c.Interval, _ = fl.GetDuration("interval")
	}
	if noWatch, _ := fl.GetBool("no-watch"); noWatch {
		c.Watch.Enabled = false
	}
	if addr, _ := fl.GetString("remote"); addr != "" {
		c.Remote.Enabled = true
		c.Remote.Addr = addr
	}
}

// deckInterval picks the autoplay default: the --interval flag, then the
// manifest's interval, then the config.
func deckInterval(cmd *cobra.Command, src *source.Deck) time.Duration {
	if cmd.Flags().Changed("interval") || src.Interval <= 0 {
		return cfg.Interval
	}
	return src.Interval
}

func runApp(cmd *cobra.Command, args []string) (err error) {
	closeLog, err := initLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	applyFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ref, fragment := splitDeckArg(args[0])
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	src, err := source.Open(ctx, ref)
	cancel()
	if err != nil {
		return fmt.Errorf("opening deck: %w", err)
	}
	log.Info(log.CatConfig, "deck opened", "ref", src.Ref, "entries", len(src.Entries))
	cfg.Interval = deckInterval(cmd, src)

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	var store *resume.Store
	if cfg.Store.Enabled {
		db, dbErr := sqlite.NewDB(cfg.Store.Path)
		if dbErr != nil {
			log.ErrorErr(log.CatStore, "opening resume store failed", dbErr, "path", cfg.Store.Path)
		} else {
			closers = append(closers, db.Close)
			store = resume.NewStore(db.PositionRepository(), src.Ref)
		}
	}
	start, _ := cmd.Flags().GetInt("start")
	startStore := store
	if noResume, _ := cmd.Flags().GetBool("no-resume"); noResume || !cfg.Resume {
		startStore = nil
	}
	fragment = app.StartFragment(fragment, start, startStore)

	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Tracing.Enabled
	tc.Exporter = cfg.Tracing.Exporter
	tc.FilePath = cfg.Tracing.FilePath
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	tc.SampleRate = cfg.Tracing.SampleRate
	provider, err := tracing.NewProvider(tc)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	if provider.Enabled() {
		log.Info(log.CatConfig, "tracing enabled", "exporter", tc.Exporter, "instance", provider.InstanceID())
	}
	closers = append(closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return provider.Shutdown(ctx)
	})

	var srv *remote.Server
	if cfg.Remote.Enabled {
		srv = remote.New(remote.Config{
			Addr:            cfg.Remote.Addr,
			AllowAllOrigins: cfg.Remote.AllowAllOrigins,
		}, provider.Tracer())
		if err := srv.Start(); err != nil {
			return err
		}
	}

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		var files []string
		for _, e := range src.Entries {
			if e.Local() {
				files = append(files, e.Ref)
			}
		}
		if len(files) > 0 {
			w, err = watcher.New(watcher.Config{Files: files, DebounceDur: cfg.Watch.Debounce})
			if err != nil {
				log.ErrorErr(log.CatWatcher, "creating watcher failed", err)
				w = nil
			}
		}
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = userConfigPath()
	}

	loader := source.NewLoader()
	loader.Tracer = provider.Tracer()

	zone.NewGlobal()
	model := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Deck:       src,
		Loader:     loader,
		Fragment:   fragment,
		Store:      store,
		Watcher:    w,
		Remote:     srv,
		Tracer:     provider.Tracer(),
		Flags:      flags.New(cfg.Flags),
		Markdown:   markdown.NewCache(markdown.ResolveStyle(cfg.UI.MarkdownStyle), false),
		Debug:      debugFlag || os.Getenv("FOLIO_DEBUG") != "",
	})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	final, runErr := p.Run()
	switch m := final.(type) {
	case app.Model:
		model = m
	case *app.Model:
		model = *m
	}
	closeErr := model.Close()
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return closeErr
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
