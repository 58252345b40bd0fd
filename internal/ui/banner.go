package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
  ███████   ███████████    █████████  ██████████   ██████████   █████████  █████   ████
 ███░░░░░███░░███░░░░░███  ███░░░░░███░░███░░░░███ ░░███░░░░░█  ███░░░░░███░░███   ███░
░███    ░███ ░███    ░███ ███     ░░░  ░███   ░░███ ░███  █ ░  ███     ░░░  ░███  ███
░███    ░███ ░██████████ ░███          ░███    ░███ ░██████   ░███          ░███████
░███    ░███ ░███░░░░░███░███    █████ ░███    ░███ ░███░░█   ░███          ░███░░███
░░███   ███  ░███    ░███░░███  ░░███  ░███    ███  ░███ ░   █░░███     ███ ░███ ░░███
 ░░░███████░ █████   █████░░█████████  ██████████   ██████████ ░░█████████  █████ ░░████
   ░░░░░░░  ░░░░░   ░░░░░  ░░░░░░░░░  ░░░░░░░░░░   ░░░░░░░░░░   ░░░░░░░░░  ░░░░░   ░░░░`

// RenderBanner returns the styled ASCII banner with subtitle and underline.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	rendered := ""

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered += BannerStyle.Render(line) + "\n"
	}

	subtitleText := "Organization Directory Console • Bulk Attribute Assignment"
	subtitleWidth := lipgloss.Width(subtitleText)
	blockWidth := maxWidth
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	subtitleStyle := BannerAccentStyle.
		Width(blockWidth).
		Align(lipgloss.Center)
	subtitle := subtitleStyle.Render(subtitleText)

	underlineStyle := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center)
	underline := underlineStyle.Render(strings.Repeat("─", subtitleWidth))

	return "\n" + rendered + "\n" + subtitle + "\n" + underline + "\n"
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
