package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles is the lipgloss palette derived from a Theme.
type Styles struct {
	Theme Theme

	Panel    lipgloss.Style
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	KeyHint  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Badge    lipgloss.Style
	Code     lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Background).
			Background(t.Accent).
			Padding(0, 1),
		Code: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Primary).
			PaddingLeft(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
	}
}

// GradientText colors each rune along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Foreground(start).Render(text)
	}

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLuv(b, t).Clamped().Hex()
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
	}
	return sb.String()
}

// ProgressBar renders percent (0..100) as a bar of the given width.
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))

	bar := lipgloss.NewStyle().Foreground(s.Theme.Primary).Render(strings.Repeat("█", filled)) +
		s.Subtle.Render(strings.Repeat("░", width-filled))
	return bar
}

// Separator is a subtle rule with a centre mark, width cells wide.
func (s Styles) Separator(width int) string {
	if width < 8 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
