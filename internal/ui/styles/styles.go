// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	AccentColor        = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Chrome
	BannerBgColor       = lipgloss.AdaptiveColor{Light: "#EFF1F5", Dark: "#1E1E2E"}
	ProgressFullColor   = "#CBA6F7"
	ProgressEmptyColor  = "#45475A"
	ButtonBgColor       = lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#313244"}
	ButtonActiveBgColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#7D56F4"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#8C8C8C"}

	// Toasts
	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor   = StatusErrorColor
	ToastBorderInfoColor    = StatusInfoColor
	ToastBorderWarnColor    = StatusWarningColor

	// Log levels
	LogDebugColor = TextMutedColor
	LogInfoColor  = StatusInfoColor
	LogWarnColor  = StatusWarningColor
	LogErrorColor = StatusErrorColor

	BannerStyle = lipgloss.NewStyle().
			Background(BannerBgColor).
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	BannerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	BannerSlideStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	CounterStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(TextPrimaryColor).
			Background(ButtonBgColor)

	ButtonActiveStyle = ButtonStyle.
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(ButtonActiveBgColor).
				Bold(true)

	AutoplayOnStyle     = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
	AutoplayPausedStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)

	// Grid tiles
	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	TileActiveStyle = TileStyle.BorderForeground(AccentColor)
	TileCursorStyle = TileStyle.BorderForeground(StatusInfoColor).Bold(true)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	LoadingStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)
