package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done                                lipgloss.Style

	BoxUnchecked, BoxChecked string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
	SymDone, SymPending      string
	BarFull, BarEmpty        string

	// MarkdownStyle is the glamour standard style for rendered checklists.
	MarkdownStyle string
}

var current = classic()

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		current = neon()
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		current = mono()
	default:
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Name:          "classic",
		Title:         lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:      lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:          lipgloss.NewStyle().Faint(true).Strikethrough(true),
		BoxUnchecked:  "☐",
		BoxChecked:    "☑",
		Border:        lipgloss.RoundedBorder(),
		BorderColor:   lipgloss.Color("8"),
		SymDone:       "✔",
		SymPending:    "•",
		BarFull:       "█",
		BarEmpty:      "░",
		MarkdownStyle: "dark",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	t.BorderColor = lipgloss.Color("13")
	t.MarkdownStyle = "dracula"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected:      plain.Reverse(true),
		Done:          plain,
		BoxUnchecked:  "[ ]",
		BoxChecked:    "[x]",
		Border:        lipgloss.NormalBorder(),
		BorderColor:   lipgloss.NoColor{},
		SymDone:       "x",
		SymPending:    "-",
		BarFull:       "#",
		BarEmpty:      "-",
		MarkdownStyle: "notty",
	}
}
