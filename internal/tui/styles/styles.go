package styles

import "github.com/charmbracelet/lipgloss"

// Oxocarbon color scheme, following the base16 oxocarbon-dark palette
var (
	OxocarbonBase01 = lipgloss.Color("#393939") // borders
	OxocarbonBase02 = lipgloss.Color("#525252") // muted elements
	OxocarbonBase03 = lipgloss.Color("#767676") // help text
	OxocarbonBase04 = lipgloss.Color("#dde1e6") // secondary foreground
	OxocarbonBase05 = lipgloss.Color("#f2f4f8") // primary foreground
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	OxocarbonBlue   = lipgloss.Color("#78a9ff")
	OxocarbonPink   = lipgloss.Color("#ee5396")
	OxocarbonRed    = lipgloss.Color("#ff5252")
	OxocarbonCyan   = lipgloss.Color("#33b1ff")
	OxocarbonGreen  = lipgloss.Color("#42be65")
	OxocarbonPurple = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve  = lipgloss.Color("#d1aaff")
	OxocarbonYellow = lipgloss.Color("#ffe97b")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			Italic(true)

	NormalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(OxocarbonBase05)

	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(OxocarbonPurple).
				Bold(true)

	ActiveItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(OxocarbonGreen).
			Bold(true)

	// Search box with a thick accent bar on the left
	InputBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(OxocarbonPurple).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			PaddingLeft(2).
			PaddingRight(2).
			MarginLeft(3)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04)

	MutedStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase02)

	URLStyle = lipgloss.NewStyle().
			Foreground(OxocarbonCyan).
			Italic(true)

	GenreBadgeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBlue).
			Padding(0, 1)

	SynopsisStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			PaddingLeft(2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(OxocarbonRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(OxocarbonYellow)

	StatusStyle = lipgloss.NewStyle().
			Foreground(OxocarbonGreen)

	FooterStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(OxocarbonBase01)
)
