package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Node kinds
	Active    lipgloss.AdaptiveColor
	Recording lipgloss.AdaptiveColor
	Range     lipgloss.AdaptiveColor
	Bookmark  lipgloss.AdaptiveColor
	Recent    lipgloss.AdaptiveColor
	Group     lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	MutedText  lipgloss.Style
	BranchText lipgloss.Style
	FreqText   lipgloss.Style
	CutText    lipgloss.Style
	ErrorText  lipgloss.Style
	StatusText lipgloss.Style
	PropsKey   lipgloss.Style
	PropsBox   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Active:    lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Recording: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		Range:     lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Bookmark:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Recent:    lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}, // Blue
		Group:     lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.BranchText = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.FreqText = r.NewStyle().Foreground(t.Subtext)
	t.CutText = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.ErrorText = r.NewStyle().Foreground(t.Error).Bold(true)
	t.StatusText = r.NewStyle().Foreground(t.Subtext)
	t.PropsKey = r.NewStyle().Foreground(t.Secondary).Width(11)
	t.PropsBox = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// KindColor is the accent used for the node icon.
func (t Theme) KindColor(n nodeStyle) lipgloss.AdaptiveColor {
	switch n {
	case styleActive:
		return t.Active
	case styleRecording:
		return t.Recording
	case styleRange:
		return t.Range
	case styleBookmark:
		return t.Bookmark
	case styleRecent:
		return t.Recent
	case styleGroup:
		return t.Group
	default:
		return t.Primary
	}
}
