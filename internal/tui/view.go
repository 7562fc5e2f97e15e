package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/limetred/limetred/internal/content"
	"github.com/limetred/limetred/internal/market"
)

const ledgerRows = 8

func (m Model) View() string {
	switch m.phase {
	case phaseGenerating:
		return m.viewGenerating()
	case phaseWorkspace:
		return m.viewWorkspace()
	case phaseDashboard:
		return m.viewDashboard()
	}
	return m.viewPrompt()
}

func (m Model) header() string {
	t := m.styles.Theme
	return GradientText("LIMETRED", t.Primary, t.Secondary) + "  " + m.styles.Subtle.Render("prompt to launch")
}

func (m Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Error.Render("✗ " + m.status)
	}
	return m.styles.Success.Render("✓ " + m.status)
}

func (m Model) hints(keys ...string) string {
	return m.styles.KeyHint.Render(strings.Join(keys, " · "))
}

func (m Model) viewPrompt() string {
	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	b.WriteString(m.styles.Value.Render("What do you want to build?") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	if s := m.statusLine(); s != "" {
		b.WriteString(s + "\n\n")
	}
	b.WriteString(m.hints("enter generate", "esc clear", "ctrl+c quit"))
	return b.String()
}

func (m Model) viewGenerating() string {
	var b strings.Builder
	if m.canvas != nil {
		b.WriteString(m.canvas.Render(string(m.styles.Theme.Background)) + "\n")
	}
	b.WriteString(m.spin.View() + " " + m.styles.Value.Render("Generating ") + m.styles.Subtle.Render(truncate(m.prompt, 48)))
	b.WriteString("  " + m.hints("esc cancel"))
	return b.String()
}

func rarityStyle(s Styles, r content.Rarity) lipgloss.Style {
	switch r {
	case content.Legendary:
		return s.Badge.Background(s.Theme.Warning)
	case content.Common:
		return s.Badge.Background(s.Theme.Muted)
	}
	return s.Badge
}

func (m Model) viewWorkspace() string {
	r := m.record
	s := m.styles
	var b strings.Builder

	b.WriteString(m.header() + "\n\n")
	b.WriteString(s.Title.Render(r.Name) + "  " + rarityStyle(s, r.Rarity).Render(string(r.Rarity)) + "\n")
	b.WriteString(s.Subtle.Render(r.Description) + "\n")
	if len(r.Attributes) > 0 {
		b.WriteString(s.Selected.Render(strings.Join(r.Attributes, " • ")) + "\n")
	}
	b.WriteString(s.Separator(min(max(m.width, 0), 60)) + "\n")
	b.WriteString("\n" + s.Label.Render("App.tsx") + "\n")
	b.WriteString(s.Code.Render(clip(r.CodeSnippet, 12)) + "\n\n")
	b.WriteString(s.Label.Render("program.rs") + "\n")
	b.WriteString(s.Code.Render(clip(r.ContractSnippet, 12)) + "\n\n")
	if st := m.statusLine(); st != "" {
		b.WriteString(st + "\n")
	}
	fee := m.cfg.Market.DeployFee
	b.WriteString(m.hints(fmt.Sprintf("d deploy (%s SOL)", humanize.Ftoa(fee)), "t theme", "esc new prompt", "q quit"))
	return b.String()
}

func (m Model) viewDashboard() string {
	s := m.styles
	snap := m.snap

	chartWidth := max(20, min(m.width-44, 60))
	left := []string{s.Title.Render(m.record.Name) + "  " + s.Subtle.Render("market cap $"+humanize.CommafWithDigits(snap.MarketCap, 0))}
	if prices := (market.CapState{Window: snap.Window}).Prices(); len(prices) > 1 {
		chart := asciigraph.Plot(prices,
			asciigraph.Height(8),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(0),
			asciigraph.Caption("Market cap (USD)"))
		left = append(left, lipgloss.NewStyle().Foreground(s.Theme.Primary).Render(chart))
	}

	curve := fmt.Sprintf("%.1f%%", snap.Progress)
	if snap.Graduated {
		curve = s.Success.Render("GRADUATED")
	}
	left = append(left,
		"",
		s.Label.Render("Bonding curve")+s.ProgressBar(snap.Progress, chartWidth-10)+" "+curve,
		s.Label.Render("Sell tax")+s.Value.Render(sellTax(snap.SellTaxMinutes)),
		s.Label.Render("Keys")+s.Value.Render(fmt.Sprintf("%s sold @ %.4f SOL", humanize.Comma(int64(snap.KeysSold)), snap.KeyPrice)),
	)

	right := []string{s.Title.Render("Wallet")}
	w := snap.Wallet
	if w.Connected() {
		right = append(right, s.Label.Render("Provider")+s.Value.Render(w.Provider))
	} else {
		right = append(right, s.Subtle.Render("not connected"))
	}
	right = append(right,
		s.Label.Render("SOL")+s.Value.Render(w.Native.StringFixed(4)),
		s.Label.Render("LMT")+s.Value.Render(humanize.CommafWithDigits(w.Token.InexactFloat64(), 2)),
		s.Label.Render("Keys held")+s.Value.Render(fmt.Sprint(w.Keys)),
		s.Label.Render("Value")+s.Value.Render("$"+humanize.CommafWithDigits(snap.USDValue.InexactFloat64(), 2)),
		"",
		s.Title.Render("Transactions"),
	)
	right = append(right, m.ledgerLines(snap.Ledger)...)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Panel.Render(strings.Join(left, "\n")),
		s.Panel.Render(strings.Join(right, "\n")),
	)

	var b strings.Builder
	b.WriteString(m.header() + "\n")
	b.WriteString(body + "\n")
	if st := m.statusLine(); st != "" {
		b.WriteString(st + "\n")
	}
	b.WriteString(m.hints("c connect", "s swap", "b buy keys", "x sell keys", "d deploy", "t theme", "esc back", "q quit"))
	return b.String()
}

func (m Model) ledgerLines(txs []market.Transaction) []string {
	if len(txs) == 0 {
		return []string{m.styles.Subtle.Render("no transactions yet")}
	}
	lines := make([]string, 0, ledgerRows+1)
	for i, tx := range txs {
		if i == ledgerRows {
			lines = append(lines, m.styles.Subtle.Render(fmt.Sprintf("… %d more", len(txs)-ledgerRows)))
			break
		}
		amount := m.styles.Success.Render(tx.Amount)
		if strings.HasPrefix(tx.Amount, "-") {
			amount = m.styles.Error.Render(tx.Amount)
		}
		lines = append(lines, fmt.Sprintf("%s %-10s %s", m.styles.Subtle.Render(tx.Timestamp), tx.Type, amount))
	}
	return lines
}

func sellTax(minutes int) string {
	if minutes <= 0 {
		return "ended"
	}
	return fmt.Sprintf("ends in %dm", minutes)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clip(s string, lines int) string {
	parts := strings.Split(s, "\n")
	if len(parts) <= lines {
		return s
	}
	return strings.Join(parts[:lines], "\n") + "\n…"
}
