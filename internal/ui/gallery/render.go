package gallery

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/posters/internal/ui/styles"
)

// maxTitleCells caps how wide a title can make a slide whose image is
// unknown.
const maxTitleCells = 24

// frameWidth is the border plus horizontal padding of a slide box.
func (t *track) frameWidth() int {
	return 2 + 2*t.ui.SlidePaddingCells
}

// posterCells is the natural width of a slide's poster area. A loaded image
// keeps its aspect ratio over ui.poster_rows rows of roughly 1:2 cells;
// anything else is as wide as its title.
func (t *track) posterCells(index int) int {
	img := t.image(index)
	if img.loaded && img.metrics.Height > 0 {
		ratio := float64(img.metrics.Width) / float64(img.metrics.Height)
		return max(int(math.Round(float64(t.ui.PosterRows)*2*ratio)), 1)
	}
	return max(min(runewidth.StringWidth(t.real(index).Title), maxTitleCells), 1)
}

func (t *track) image(index int) imageState {
	if index < 0 || index >= len(t.images) {
		return imageState{}
	}
	return t.images[index]
}

// renderSlide draws the slide at index. A width of 0 draws it at its natural
// width; otherwise the box is exactly width cells wide.
func (t *track) renderSlide(index, width int) string {
	inner := t.posterCells(index)
	if width > 0 {
		inner = max(width-t.frameWidth(), 1)
	}
	slide := t.real(index)

	border := styles.SlideBorderColor
	if index == t.active {
		border = styles.SlideActiveBorderColor
	}
	title := lipgloss.NewStyle().Bold(index == t.active).Render(center(slide.Title, inner))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, t.ui.SlidePaddingCells).
		Render(t.poster(index, inner) + "\n" + title)
}

// poster fills the image area with a swatch labelled with what is known
// about the image.
func (t *track) poster(index, inner int) string {
	img := t.image(index)
	fill := styles.PosterFillColor
	var label string
	switch {
	case img.loaded:
		label = fmt.Sprintf("%d×%d\n%s", img.metrics.Width, img.metrics.Height, img.metrics.Format)
	case img.failed:
		fill = styles.PosterFailedColor
		label = "image unavailable"
	case img.none:
		label = ""
	default:
		label = "loading"
	}
	lines := strings.Split(label, "\n")
	for i, l := range lines {
		lines[i] = truncate(l, inner)
	}
	return lipgloss.NewStyle().
		Background(fill).
		Foreground(styles.TextMutedColor).
		Width(inner).
		Height(t.ui.PosterRows).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// strip renders every extended slide side by side, untranslated.
func (t *track) strip() string {
	if t.reg == nil {
		return ""
	}
	var parts []string
	if t.ui.TrackPaddingCells > 0 {
		parts = append(parts, strings.Repeat(" ", t.ui.TrackPaddingCells))
	}
	gap := strings.Repeat(" ", t.ui.GapCells)
	for i := 0; i < t.reg.Len(); i++ {
		if i > 0 && t.ui.GapCells > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, t.renderSlide(i, t.boxWidth(i)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// view renders the strip shifted by the on-screen translation and cropped
// to the wrapper.
func (t *track) view() string {
	return crop(t.strip(), t.offsetCells(), t.wrapper)
}

// crop shifts every line of s right by offset cells (left when negative)
// and keeps the first width cells.
func crop(s string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var out string
		switch {
		case offset >= width:
			out = ""
		case offset >= 0:
			out = strings.Repeat(" ", offset) + ansi.Cut(line, 0, width-offset)
		default:
			out = ansi.Cut(line, -offset, -offset+width)
		}
		if w := ansi.StringWidth(out); w < width {
			out += strings.Repeat(" ", width-w)
		}
		lines[i] = out
	}
	return strings.Join(lines, "\n")
}
