package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/ui/gallery"
	"github.com/zjrosen/posters/internal/ui/styles"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [deck]",
	Short: "Print where every slide sits, clones included",
	Long: `Lays the deck out without starting the UI and prints one row per
slide of the extended sequence: its real index, whether it is a clone, the
width used and which measurement produced it, and the offset that centers it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntP("width", "w", 100, "terminal width to lay out for, in cells")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	if err := config.ValidateUI(cfg.UI); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	width, _ := cmd.Flags().GetInt("width")
	if width <= 0 {
		return fmt.Errorf("--width must be positive, got %d", width)
	}
	if viper.GetBool("debug") {
		log.InitWriter(cmd.ErrOrStderr(), log.LevelDebug)
		defer log.Reset()
	}

	d, err := loadDeck(args)
	if err != nil {
		return err
	}
	placements, err := gallery.Describe(cmd.Context(), d, cfg.UI, cfg.Carousel.Thresholds(), width, nil)
	if err != nil {
		return fmt.Errorf("laying out deck: %w", err)
	}

	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		clone := ""
		if p.Clone {
			clone = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Real),
			clone,
			d.Slides[p.Real].Title,
			strconv.FormatFloat(p.Width, 'f', 1, 64),
			p.Source.String(),
			strconv.FormatFloat(p.Offset, 'f', 1, 64),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		Headers("Index", "Real", "Clone", "Title", "Width (px)", "Source", "Offset (px)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	title := d.Title
	if title == "" {
		title = d.Dir
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d slides, %d with clones, %d cells wide\n%s\n",
		title, d.Len(), len(placements), width, t.Render())
	return err
}
