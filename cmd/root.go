package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/posters/internal/app"
	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/deck"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".posters/config.yaml"
	debugLogPath    = "posters-debug.log"
)

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "posters [deck]",
	Short: "A looping poster carousel for the terminal",
	Long: `Posters shows a deck of images as an endless carousel. A deck is a
directory of images or a deck.yaml manifest with titles and captions.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/posters/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write "+debugLogPath+" and enable the log overlay (ctrl+x)")
	rootCmd.Flags().Bool("no-autoplay", false,
		"start with autoplay off")
	rootCmd.Flags().Bool("no-watch", false,
		"do not re-probe images when files change")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "posters")
}

func initConfig() {
	viper.SetEnvPrefix("posters")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .posters/config.yaml (current directory)
		// 2. ~/.config/posters/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(userConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file anywhere: write the default user config.
			if dir := userConfigDir(); dir != "" {
				defaultPath := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
		} else {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	// Keys missing from the file keep their defaults.
	cfg = config.Defaults()
	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("parsing config: %w", err)
	}
}

// loadDeck resolves the deck argument, falling back to the configured deck
// and then the current directory.
func loadDeck(args []string) (*deck.Deck, error) {
	path := cfg.Deck
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = "."
	}
	d, err := deck.Load(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading deck: %w", err)
	}
	return d, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	if noAutoplay, _ := cmd.Flags().GetBool("no-autoplay"); noAutoplay {
		cfg.Carousel.Autoplay = false
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	debug := viper.GetBool("debug")
	if debug {
		closeLog, err := log.Init(debugLogPath)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	d, err := loadDeck(args)
	if err != nil {
		return err
	}
	log.Info(log.CatDeck, "Deck loaded", "title", d.Title, "slides", d.Len(), "dir", d.Dir)

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()
	var tracer trace.Tracer
	if provider.Enabled() {
		tracer = provider.Tracer()
	}

	// Toggles are saved to the file that was loaded, or to the local config
	// when none was.
	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = localConfigPath
	}

	zone.NewGlobal()
	model := app.New(d, cfg, app.Options{
		ConfigPath: configFilePath,
		Debug:      debug,
		Tracer:     tracer,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()

	// Stop timers, the watcher and subscriptions
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
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
