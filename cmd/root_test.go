package cmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/posters/internal/config"
)

func writeDeck(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 300, 450))))
		require.NoError(t, f.Close())
	}
	return dir
}

// resetFlags puts every flag of cmd and its subcommands back to its default.
// Cobra keeps parsed values on the package-level commands between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	configErr = nil
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInspect_PrintsExtendedSequence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))
	dir := writeDeck(t, "first", "second")

	out, err := execute(t, "inspect", dir, "--config", configPath, "--width", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "2 slides, 4 with clones, 100 cells wide")
	assert.Contains(t, out, "Offset (px)")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Equal(t, 2, strings.Count(out, "yes"), "one clone at each end")
	assert.Equal(t, 4, strings.Count(out, "measured"))
}

func TestInspect_RejectsBadWidth(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))

	_, err := execute(t, "inspect", writeDeck(t, "a"), "--config", configPath, "--width", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--width must be positive")
}

func TestInspect_EmptyDeck(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))

	_, err := execute(t, "inspect", t.TempDir(), "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading deck")
}

func TestInspect_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))

	_, err := execute(t, "inspect", writeDeck(t, "a"), "--config", configPath, "--width", "0")
	require.ErrorContains(t, err, "--width must be positive")

	out, err := execute(t, "inspect", writeDeck(t, "a"), "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "100 cells wide", "width falls back to its default")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("carousel:\n  transition: -1s\n"), 0o600))

	_, err := execute(t, writeDeck(t, "a"), "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carousel.transition must be positive")
}

func TestRun_UnreadableConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("carousel: [unclosed\n"), 0o600))

	_, err := execute(t, writeDeck(t, "a"), "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestInitConfig_WritesDefaultUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	viper.Reset()
	cfgFile = ""
	configErr = nil

	initConfig()

	require.NoError(t, configErr)
	assert.FileExists(t, filepath.Join(home, ".config", "posters", "config.yaml"))
	assert.Equal(t, config.Defaults().Carousel, cfg.Carousel)
	assert.Equal(t, config.Defaults().UI, cfg.UI)
}

func TestInitConfig_PrefersLocalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	require.NoError(t, os.MkdirAll(".posters", 0o750))
	require.NoError(t, os.WriteFile(localConfigPath, []byte("carousel:\n  autoplay: false\nui:\n  poster_rows: 8\n"), 0o600))
	viper.Reset()
	cfgFile = ""
	configErr = nil

	initConfig()

	require.NoError(t, configErr)
	assert.False(t, cfg.Carousel.Autoplay)
	assert.Equal(t, 8, cfg.UI.PosterRows)
	assert.Equal(t, config.Defaults().Carousel.Transition, cfg.Carousel.Transition, "missing keys keep defaults")
}
