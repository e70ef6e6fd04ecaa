// Package config provides configuration types and defaults for posters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/posters/internal/carousel"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/tracing"
)

// Config holds all configuration options for posters.
type Config struct {
	Deck     string         `mapstructure:"deck"`
	Watch    bool           `mapstructure:"watch"`
	Carousel CarouselConfig `mapstructure:"carousel"`
	UI       UIConfig       `mapstructure:"ui"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// CarouselConfig holds the engine's timings and thresholds. Durations accept
// Go duration strings ("500ms").
type CarouselConfig struct {
	Autoplay         bool          `mapstructure:"autoplay"`
	Transition       time.Duration `mapstructure:"transition"`
	Reenable         time.Duration `mapstructure:"reenable"`
	ResizeDebounce   time.Duration `mapstructure:"resize_debounce"`
	AutoplayInterval time.Duration `mapstructure:"autoplay_interval"`
	TouchResume      time.Duration `mapstructure:"touch_resume"`
	InitialUpdate    time.Duration `mapstructure:"initial_update"`
	SettlePass       time.Duration `mapstructure:"settle_pass"`

	SwipeThreshold        float64       `mapstructure:"swipe_threshold"` // px
	SwipeMaxDuration      time.Duration `mapstructure:"swipe_max_duration"`
	MinSlideWidth         float64       `mapstructure:"min_slide_width"`    // px
	FallbackMaxWidth      float64       `mapstructure:"fallback_max_width"` // px
	FallbackViewportRatio float64       `mapstructure:"fallback_viewport_ratio"`
}

// Timing converts the configured delays for carousel.Options.
func (c CarouselConfig) Timing() carousel.Timing {
	return carousel.Timing{
		Transition:       c.Transition,
		Reenable:         c.Reenable,
		ResizeDebounce:   c.ResizeDebounce,
		AutoplayInterval: c.AutoplayInterval,
		TouchResume:      c.TouchResume,
		InitialUpdate:    c.InitialUpdate,
		SettlePass:       c.SettlePass,
	}
}

// Thresholds converts the configured limits for carousel.Options.
func (c CarouselConfig) Thresholds() carousel.Thresholds {
	return carousel.Thresholds{
		SwipeDistance:         c.SwipeThreshold,
		SwipeMaxDuration:      c.SwipeMaxDuration,
		MinSlideWidth:         c.MinSlideWidth,
		FallbackMaxWidth:      c.FallbackMaxWidth,
		FallbackViewportRatio: c.FallbackViewportRatio,
	}
}

// UIConfig holds terminal rendering options. One terminal cell is
// PixelsPerCell pixels wide; image natural widths are divided by ImageScale
// before they become slide widths.
type UIConfig struct {
	PixelsPerCell     float64 `mapstructure:"pixels_per_cell"`
	ImageScale        float64 `mapstructure:"image_scale"`
	PosterRows        int     `mapstructure:"poster_rows"`
	GapCells          int     `mapstructure:"gap_cells"`
	TrackPaddingCells int     `mapstructure:"track_padding_cells"`
	SlidePaddingCells int     `mapstructure:"slide_padding_cells"`
	MarkdownStyle     string  `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowCaptions      bool    `mapstructure:"show_captions"`
}

// DefaultTracesFilePath returns ~/.config/posters/traces/traces.jsonl, or ""
// when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "posters", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	timing := carousel.DefaultTiming()
	th := carousel.DefaultThresholds()
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		Watch: true,
		Carousel: CarouselConfig{
			Autoplay:              true,
			Transition:            timing.Transition,
			Reenable:              timing.Reenable,
			ResizeDebounce:        timing.ResizeDebounce,
			AutoplayInterval:      timing.AutoplayInterval,
			TouchResume:           timing.TouchResume,
			InitialUpdate:         timing.InitialUpdate,
			SettlePass:            timing.SettlePass,
			SwipeThreshold:        th.SwipeDistance,
			SwipeMaxDuration:      th.SwipeMaxDuration,
			MinSlideWidth:         th.MinSlideWidth,
			FallbackMaxWidth:      th.FallbackMaxWidth,
			FallbackViewportRatio: th.FallbackViewportRatio,
		},
		UI: UIConfig{
			PixelsPerCell:     8,
			ImageScale:        4,
			PosterRows:        12,
			GapCells:          2,
			TrackPaddingCells: 2,
			SlidePaddingCells: 1,
			MarkdownStyle:     "dark",
			ShowCaptions:      false,
		},
		Tracing: tr,
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateCarousel(cfg.Carousel); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateCarousel rejects non-positive durations and thresholds and a
// viewport ratio outside (0, 1].
func ValidateCarousel(c CarouselConfig) error {
	durations := []struct {
		key string
		val time.Duration
	}{
		{"transition", c.Transition},
		{"reenable", c.Reenable},
		{"resize_debounce", c.ResizeDebounce},
		{"autoplay_interval", c.AutoplayInterval},
		{"touch_resume", c.TouchResume},
		{"initial_update", c.InitialUpdate},
		{"settle_pass", c.SettlePass},
		{"swipe_max_duration", c.SwipeMaxDuration},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("carousel.%s must be positive, got %v", d.key, d.val)
		}
	}

	lengths := []struct {
		key string
		val float64
	}{
		{"swipe_threshold", c.SwipeThreshold},
		{"min_slide_width", c.MinSlideWidth},
		{"fallback_max_width", c.FallbackMaxWidth},
	}
	for _, l := range lengths {
		if l.val <= 0 {
			return fmt.Errorf("carousel.%s must be positive, got %v", l.key, l.val)
		}
	}

	if c.FallbackViewportRatio <= 0 || c.FallbackViewportRatio > 1 {
		return fmt.Errorf("carousel.fallback_viewport_ratio must be in (0, 1], got %v", c.FallbackViewportRatio)
	}
	return nil
}

// ValidateUI checks rendering options.
func ValidateUI(ui UIConfig) error {
	if ui.PixelsPerCell <= 0 {
		return fmt.Errorf("ui.pixels_per_cell must be positive, got %v", ui.PixelsPerCell)
	}
	if ui.ImageScale <= 0 {
		return fmt.Errorf("ui.image_scale must be positive, got %v", ui.ImageScale)
	}
	if ui.PosterRows < 3 {
		return fmt.Errorf("ui.poster_rows must be at least 3, got %d", ui.PosterRows)
	}
	if ui.GapCells < 0 || ui.TrackPaddingCells < 0 || ui.SlidePaddingCells < 0 {
		return fmt.Errorf("ui cell counts must not be negative")
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration. Path requirements only apply
// while tracing is enabled.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if !tracing.ValidExporter(t.Exporter) {
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if !t.Enabled {
		return nil
	}
	if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Posters Configuration

# Poster deck: a deck.yaml manifest or a directory of images
# deck: ./posters

# Re-read images when files in the deck directory change
watch: true

carousel:
  autoplay: true            # Advance automatically; toggle at runtime with space
  autoplay_interval: 4s
  transition: 500ms         # One navigation holds the lock this long
  # reenable: 50ms          # Transitions stay off after a loop reset paint
  # resize_debounce: 150ms
  # touch_resume: 1s        # Autoplay grace after a drag ends
  # swipe_threshold: 50     # px a drag must cover to count as a swipe
  # swipe_max_duration: 300ms
  # min_slide_width: 50     # px; narrower measurements use the fallback chain
  # fallback_max_width: 400
  # fallback_viewport_ratio: 0.75

ui:
  pixels_per_cell: 8        # Horizontal pixels per terminal cell
  image_scale: 4            # Image pixels per layout pixel
  poster_rows: 12
  gap_cells: 2
  track_padding_cells: 2
  slide_padding_cells: 1
  # markdown_style: dark    # Caption rendering style: "dark" (default) or "light"
  show_captions: false      # Open the caption panel on start (toggle with i)

# Transition tracing (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout, otlp
#   file_path: ~/.config/posters/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
