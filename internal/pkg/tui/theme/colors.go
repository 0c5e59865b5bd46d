package theme

import "github.com/charmbracelet/lipgloss"

// Color palette, soft pastels to match the play themes.
var (
	// Primary colors
	Purple       = lipgloss.Color("#A855F7")
	BrightPurple = lipgloss.Color("#C084FC")
	Teal         = lipgloss.Color("#4ECDC4")

	// Neutrals
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#9CA3AF")
	DimGray   = lipgloss.Color("#6B7280")
	DarkGray  = lipgloss.Color("#374151")

	// Semantic colors
	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
)

// TrendColor maps an engagement trend label to its display color.
func TrendColor(trend string) lipgloss.Color {
	switch trend {
	case "improving":
		return Success
	case "declining":
		return Error
	default:
		return LightGray
	}
}
