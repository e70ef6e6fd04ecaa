// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#696969"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#C9A227", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Slides
	SlideBorderColor       = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#5C5C5C"}
	SlideActiveBorderColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	SlideCloneBorderColor  = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#45475A"} // only seen with --debug
	PosterFillColor        = lipgloss.AdaptiveColor{Light: "#D0D4E4", Dark: "#313244"}
	PosterFailedColor      = lipgloss.AdaptiveColor{Light: "#F2B8B8", Dark: "#5C2B2B"}

	// Indicators and controls
	IndicatorColor       = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#585B70"}
	IndicatorActiveColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	ControlColor         = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#CDD6F4"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#B8B8B8", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}

	// Caption side panel
	CaptionPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(BorderDefaultColor).
				PaddingLeft(1)
)
